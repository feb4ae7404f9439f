package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"noskip/internal/cache"
	"noskip/internal/cli"
	"noskip/internal/core"
	apphttp "noskip/internal/http"
	"noskip/internal/log"
	"noskip/internal/middleware/auth"
	"noskip/internal/middleware/ratelimit"
	"noskip/internal/middleware/security"
	"noskip/internal/services"
	"noskip/internal/settings"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Publishing is optional; without a broker transactions stay unsynced
	// until the worker's startup check picks them up.
	var publisher services.SyncPublisher
	amqpClient := cli.ConnectAMQP(ctx, logger, cfg, 3)
	if amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	expenseCache := cache.NewLRUCache[[]core.Expense](200, 5*time.Minute)
	janitor := cache.NewJanitor(expenseCache)
	go janitor.Run(ctx, 10*time.Minute)

	clock := services.NewClock(cfg.Location())
	prefs := settings.NewService(repo)
	transactions := services.NewTransactionService(repo, publisher, expenseCache)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Habits:       services.NewHabitService(repo, clock),
		Transactions: transactions,
		Budgets:      services.NewBudgetService(repo, transactions),
		Categories:   services.NewCategoryService(repo),
		Dashboard:    services.NewDashboardService(repo, transactions, prefs, clock),
		Settings:     prefs,
		Clock:        clock,
		Store:        repo,
		Auth:         auth.NewAuthenticator(cfg.JWTSecret),
		Limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		Detector: security.NewDetector(),
		Logger:   logger.WithComponent(log.ComponentHTTP),
	})
	srv.MaxHeaderBytes = 1 << 16

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		cli.RunCleanup(logger, 30*time.Second, func(shutdownCtx context.Context) {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.ErrorContext(shutdownCtx, "Server shutdown error", log.FieldError, err)
			}
			<-janitor.Done()
		})
	}()

	logger.InfoContext(ctx, "Starting noskip server",
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"amqp_enabled", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorContext(ctx, "Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-stopped
	logger.InfoContext(context.Background(), "Server stopped gracefully")
}
