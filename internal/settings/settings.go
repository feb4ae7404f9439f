// Package settings loads and saves per-user preferences. The only
// preference today is the spending cycle configuration.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"noskip/internal/core"
)

// CycleKey is the fixed key the cycle configuration is stored under.
const CycleKey = "noskip-cycle-config"

// Store persists opaque preference values per user.
type Store interface {
	// GetPreference returns core.ErrNotFound when nothing is stored.
	GetPreference(ctx context.Context, userID, key string) ([]byte, error)
	PutPreference(ctx context.Context, userID, key string, blob []byte) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// LoadCycle returns the user's cycle configuration. Missing, unreadable or
// invalid values fall back to core.DefaultCycleConfig without an error.
func (s *Service) LoadCycle(ctx context.Context, userID string) core.CycleConfig {
	blob, err := s.store.GetPreference(ctx, userID, CycleKey)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Failed to read cycle preference, using default",
				"user_id", userID, "error", err)
		}
		return core.DefaultCycleConfig()
	}

	var cfg core.CycleConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		slog.WarnContext(ctx, "Corrupt cycle preference, using default",
			"user_id", userID, "error", err)
		return core.DefaultCycleConfig()
	}
	if err := cfg.Validate(); err != nil {
		slog.WarnContext(ctx, "Invalid cycle preference, using default",
			"user_id", userID, "error", err)
		return core.DefaultCycleConfig()
	}
	return cfg
}

// SaveCycle validates cfg and replaces the stored value.
func (s *Service) SaveCycle(ctx context.Context, userID string, cfg core.CycleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cycle config: %w", err)
	}
	if err := s.store.PutPreference(ctx, userID, CycleKey, blob); err != nil {
		return fmt.Errorf("save cycle config: %w", err)
	}
	slog.InfoContext(ctx, "Cycle preference saved",
		"user_id", userID, "type", cfg.Type, "payday", cfg.Payday)
	return nil
}
