package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"noskip/internal/amqp"
	"noskip/internal/core"
	"noskip/internal/sheets"
	"noskip/internal/storage"
)

// Store is the part of the repository the worker reads and updates.
type Store interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	GetIncome(ctx context.Context, id string) (core.Income, error)
	MarkSynced(ctx context.Context, kind core.TransactionKind, id string) error
	ListUnsynced(ctx context.Context, limit int) ([]storage.PendingSync, error)
}

// SyncWorker exports transactions from SQLite to a spreadsheet.
type SyncWorker struct {
	store     Store
	exporter  sheets.TransactionExporter
	batchSize int
}

func NewSyncWorker(store Store, exporter sheets.TransactionExporter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{store: store, exporter: exporter, batchSize: batchSize}
}

// HandleSyncMessage exports the transaction named by msg. A transaction
// deleted before the message arrived is skipped.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "kind", msg.Kind, "id", msg.ID)

	err := w.sync(ctx, msg.Kind, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction no longer exists, skipping", "kind", msg.Kind, "id", msg.ID)
		return nil
	}
	return err
}

func (w *SyncWorker) sync(ctx context.Context, kind core.TransactionKind, id string) error {
	var row sheets.Row
	switch kind {
	case core.KindExpense:
		e, err := w.store.GetExpense(ctx, id)
		if err != nil {
			return fmt.Errorf("get expense from storage: %w", err)
		}
		row = sheets.ExpenseRow(e)
	case core.KindIncome:
		in, err := w.store.GetIncome(ctx, id)
		if err != nil {
			return fmt.Errorf("get income from storage: %w", err)
		}
		row = sheets.IncomeRow(in)
	default:
		return fmt.Errorf("unknown transaction kind %q", kind)
	}

	ref, err := w.exporter.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("export %s %s: %w", kind, id, err)
	}

	// The row is already exported; a failed mark only means it may be
	// offered again by the startup check.
	if err := w.store.MarkSynced(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "kind", kind, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction", "kind", kind, "id", id, "ref", ref)
	return nil
}

// StartupSyncCheck exports transactions whose sync message was lost, for
// example while the broker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.ListUnsynced(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.sync(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"kind", p.Kind, "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}
