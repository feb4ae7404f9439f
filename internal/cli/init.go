// Package cli provides the process bootstrap shared by cmd/noskip,
// cmd/noskip-worker and cmd/reminder-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"noskip/internal/amqp"
	"noskip/internal/config"
	"noskip/internal/log"
	"noskip/internal/storage"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger at level and makes it the slog
// default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = log.ComponentApp
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits the process when it
// is invalid.
func LoadAndValidateConfig() (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(context.Background(), "Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSQLite opens the repository, running migrations, or exits.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.ErrorContext(context.Background(), "Failed to initialize SQLite repository",
			log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// ConnectAMQP connects to the broker when cfg names one. A nil client
// means messaging is disabled.
func ConnectAMQP(ctx context.Context, logger *log.Logger, cfg *config.Config, attempts int) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.WarnContext(ctx, "AMQP_URL not set, messaging disabled")
		return nil
	}
	client, err := amqp.ConnectWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPReminderQueue, attempts)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to AMQP", log.FieldError, err)
		return nil
	}
	logger.InfoContext(ctx, "Connected to AMQP", "exchange", cfg.AMQPExchange)
	return client
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.InfoContext(ctx, "Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// RunCleanup runs cleanup with a deadline and logs when it is exceeded.
func RunCleanup(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		cleanup(ctx)
		close(done)
	}()

	select {
	case <-done:
		logger.InfoContext(ctx, "Shutdown complete", log.FieldOperation, log.OpShutdown)
	case <-ctx.Done():
		logger.WarnContext(context.Background(), "Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
	}
}
