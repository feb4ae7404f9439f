package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ctlConfig is the on-disk configuration of noskipctl.
type ctlConfig struct {
	Database DatabaseConfig `toml:"database"`
	User     UserConfig     `toml:"user"`
	Display  DisplayConfig  `toml:"display"`
	Auth     AuthConfig     `toml:"auth"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type UserConfig struct {
	ID string `toml:"id"`
}

type DisplayConfig struct {
	Timezone string `toml:"timezone"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret,omitempty"`
}

func defaultCtlConfig() ctlConfig {
	return ctlConfig{
		Database: DatabaseConfig{Path: "./data/noskip.db"},
		Display:  DisplayConfig{Timezone: "Local"},
	}
}

// configDir returns the XDG config directory for noskip.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "noskip")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "noskip")
}

func configPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// loadCtlConfig reads path, returning defaults when the file does not exist.
func loadCtlConfig(path string) (ctlConfig, error) {
	cfg := defaultCtlConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// saveCtlConfig writes cfg to path with owner-only permissions, since it
// may hold the token secret.
func saveCtlConfig(path string, cfg ctlConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// jwtSecret prefers the environment over the config file.
func (c ctlConfig) jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return c.Auth.JWTSecret
}
