package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"noskip/internal/cache"
	"noskip/internal/core"
	"noskip/internal/metrics"
	"noskip/internal/storage"
)

// SyncPublisher announces new transactions to the export worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, kind core.TransactionKind, id string) error
}

// TransactionService orchestrates expense and income writes across SQLite
// and AMQP, and serves expense lists through a per-user cache.
type TransactionService struct {
	repo      *storage.SQLiteRepository
	publisher SyncPublisher
	expenses  cache.Cache[[]core.Expense]
}

// NewTransactionService wires the service. publisher and expenseCache may
// be nil.
func NewTransactionService(repo *storage.SQLiteRepository, publisher SyncPublisher, expenseCache cache.Cache[[]core.Expense]) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher, expenses: expenseCache}
}

// CreateExpense saves an expense locally and publishes a sync message.
func (s *TransactionService) CreateExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	e.UserID = userID
	e.Category = strings.TrimSpace(e.Category)
	e.Note = strings.TrimSpace(e.Note)
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	customs, err := s.repo.ListCustomCategories(ctx, userID)
	if err != nil {
		return core.Expense{}, err
	}
	if !core.IsKnownCategory(e.Category, customs) {
		return core.Expense{}, fmt.Errorf("category %q: %w", e.Category, core.ErrUnknownCategory)
	}

	// Save to SQLite first; the export is best effort.
	saved, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	metrics.TransactionsCreated.WithLabelValues(string(core.KindExpense)).Inc()
	s.invalidate(userID)

	s.publishSync(ctx, core.KindExpense, saved.ID)
	return saved, nil
}

func (s *TransactionService) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// ListExpenses returns the user's expenses in [from, to], from cache when
// possible.
func (s *TransactionService) ListExpenses(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error) {
	if from.After(to) {
		return nil, fmt.Errorf("range %s..%s: %w", from, to, core.ErrInvalidDay)
	}
	key := expenseCacheKey(userID, from, to)
	if s.expenses != nil {
		if cached, ok := s.expenses.Get(key); ok {
			metrics.RecordCacheLookup(true)
			return cached, nil
		}
		metrics.RecordCacheLookup(false)
	}

	list, err := s.repo.ListExpenses(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if s.expenses != nil {
		s.expenses.Set(key, list)
	}
	return list, nil
}

// CreateIncome saves an income locally and publishes a sync message.
func (s *TransactionService) CreateIncome(ctx context.Context, userID string, in core.Income) (core.Income, error) {
	in.UserID = userID
	in.Note = strings.TrimSpace(in.Note)
	if err := in.Validate(); err != nil {
		return core.Income{}, fmt.Errorf("validate income: %w", err)
	}

	saved, err := s.repo.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	metrics.TransactionsCreated.WithLabelValues(string(core.KindIncome)).Inc()

	s.publishSync(ctx, core.KindIncome, saved.ID)
	return saved, nil
}

func (s *TransactionService) DeleteIncome(ctx context.Context, userID, id string) error {
	return s.repo.DeleteIncome(ctx, userID, id)
}

func (s *TransactionService) ListIncomes(ctx context.Context, userID string, from, to core.Date) ([]core.Income, error) {
	if from.After(to) {
		return nil, fmt.Errorf("range %s..%s: %w", from, to, core.ErrInvalidDay)
	}
	return s.repo.ListIncomes(ctx, userID, from, to)
}

// publishSync never fails the request; the row is already stored and the
// worker's startup check picks up anything whose message was lost.
func (s *TransactionService) publishSync(ctx context.Context, kind core.TransactionKind, id string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "kind", kind, "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "kind", kind, "id", id, "error", err)
	}
}

func (s *TransactionService) invalidate(userID string) {
	if s.expenses != nil {
		s.expenses.DeletePrefix(userID + ":")
	}
}

func expenseCacheKey(userID string, from, to core.Date) string {
	return userID + ":" + from.String() + ":" + to.String()
}
