package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"noskip/internal/amqp"
	"noskip/internal/core"
	"noskip/internal/storage"
)

// 2024-03-15 is a Friday.
var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "noskip.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type fakePublisher struct {
	mu        sync.Mutex
	syncs     []string
	reminders []*amqp.HabitReminderMessage
	err       error
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, kind core.TransactionKind, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.syncs = append(p.syncs, string(kind)+":"+id)
	return nil
}

func (p *fakePublisher) PublishHabitReminder(_ context.Context, msg *amqp.HabitReminderMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.reminders = append(p.reminders, msg)
	return nil
}

var errBrokerDown = errors.New("broker down")

func mustCreateExpense(t *testing.T, svc *TransactionService, userID, category string, cents int64, d core.Date) core.Expense {
	t.Helper()
	e, err := svc.CreateExpense(context.Background(), userID, core.Expense{
		Amount: core.Money{Cents: cents}, Category: category, Date: d,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return e
}
