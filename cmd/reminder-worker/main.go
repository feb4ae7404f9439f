package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"noskip/internal/cli"
	"noskip/internal/config"
	"noskip/internal/log"
	"noskip/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentReminder)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.ConnectAMQP(ctx, logger, cfg, 10)
	if amqpClient == nil {
		logger.ErrorContext(ctx, "Reminder worker requires AMQP")
		os.Exit(1)
	}
	defer amqpClient.Close()

	loc := cfg.Location()
	reminders := services.NewReminderService(repo, amqpClient, loc)

	schedule, err := config.ParseSchedule(cfg.ReminderSchedule)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid reminder schedule", log.FieldError, err)
		os.Exit(1)
	}

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(schedule, cron.FuncJob(func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		sent, err := reminders.Run(runCtx, time.Now())
		if err != nil {
			logger.ErrorContext(runCtx, "Reminder run failed", log.FieldError, err, "sent", sent)
			return
		}
		if sent > 0 {
			logger.InfoContext(runCtx, "Reminders published", "sent", sent)
		}
	}))

	logger.InfoContext(ctx, "Starting reminder-worker",
		"schedule", cfg.ReminderSchedule,
		"timezone", loc.String())
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	cli.RunCleanup(logger, 30*time.Second, func(shutdownCtx context.Context) {
		select {
		case <-stopCtx.Done():
		case <-shutdownCtx.Done():
		}
	})
}
