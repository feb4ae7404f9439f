package main

import (
	"context"
	"errors"
	"os"
	"time"

	"noskip/internal/cli"
	"noskip/internal/log"
	"noskip/internal/sheets"
	gsheet "noskip/internal/sheets/google"
	"noskip/internal/sheets/memory"
	"noskip/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentWorker)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	logger.InfoContext(ctx, "Starting noskip-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var exporter sheets.TransactionExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.InfoContext(ctx, "Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = memory.New()
		logger.WarnContext(ctx, "GOOGLE_SPREADSHEET_ID not set, exporting to memory")
	}

	syncWorker := worker.NewSyncWorker(repo, exporter, cfg.SyncBatchSize)

	logger.InfoContext(ctx, "Performing startup sync check...", log.FieldOperation, log.OpStartup)
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed startup sync check", log.FieldError, err)
	}

	amqpClient := cli.ConnectAMQP(ctx, logger, cfg, 10)
	if amqpClient != nil {
		defer amqpClient.Close()
		go func() {
			err := amqpClient.ConsumeTransactionSync(ctx, syncWorker.HandleSyncMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorContext(ctx, "Message consumption failed", log.FieldError, err)
				cancel()
			}
		}()
	} else {
		logger.WarnContext(ctx, "Consuming disabled, relying on periodic sync only")
	}

	// Periodic pass for messages lost while the broker was unreachable.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(context.Background(), "Worker stopped", log.FieldOperation, log.OpShutdown)
			return
		case <-ticker.C:
			if err := syncWorker.StartupSyncCheck(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}
