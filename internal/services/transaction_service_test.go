package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"noskip/internal/cache"
	"noskip/internal/core"
	"noskip/internal/metrics"
)

func TestTransactionServiceCreateExpensePublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(newTestRepo(t), pub, nil)

	before := testutil.ToFloat64(metrics.TransactionsCreated.WithLabelValues("expense"))
	e := mustCreateExpense(t, svc, "u1", "Food", 1250, core.NewDate(2024, 3, 15))
	if e.ID == "" || e.UserID != "u1" {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if len(pub.syncs) != 1 || pub.syncs[0] != "expense:"+e.ID {
		t.Errorf("published = %v", pub.syncs)
	}
	if got := testutil.ToFloat64(metrics.TransactionsCreated.WithLabelValues("expense")) - before; got != 1 {
		t.Errorf("transactions created delta = %v, want 1", got)
	}
}

func TestTransactionServicePublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, &fakePublisher{err: errBrokerDown}, nil)

	in, err := svc.CreateIncome(ctx, "u1", core.Income{
		Amount: core.Money{Cents: 100000}, Source: core.SourceSalary, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create income should succeed when publish fails: %v", err)
	}
	list, err := svc.ListIncomes(ctx, "u1", core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if err != nil || len(list) != 1 || list[0].ID != in.ID {
		t.Fatalf("incomes = %+v, err = %v", list, err)
	}

	// No publisher configured at all.
	noAMQP := NewTransactionService(repo, nil, nil)
	mustCreateExpense(t, noAMQP, "u1", "Bills", 500, core.NewDate(2024, 3, 2))
}

func TestTransactionServiceValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil, nil)

	tests := []struct {
		name string
		e    core.Expense
		want error
	}{
		{"zero amount", core.Expense{Category: "Food", Date: core.NewDate(2024, 3, 1)}, core.ErrInvalidAmount},
		{"no category", core.Expense{Amount: core.Money{Cents: 1}, Date: core.NewDate(2024, 3, 1)}, core.ErrEmptyCategory},
		{"unknown category", core.Expense{Amount: core.Money{Cents: 1}, Category: "Pets", Date: core.NewDate(2024, 3, 1)}, core.ErrUnknownCategory},
		{"no date", core.Expense{Amount: core.Money{Cents: 1}, Category: "Food"}, core.ErrMissingDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateExpense(ctx, "u1", tt.e); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := repo.CreateCustomCategory(ctx, core.CustomCategory{UserID: "u1", Name: "Pets", Color: "#123456"}); err != nil {
		t.Fatalf("create custom category: %v", err)
	}
	mustCreateExpense(t, svc, "u1", "Pets", 900, core.NewDate(2024, 3, 3))

	if _, err := svc.CreateIncome(ctx, "u1", core.Income{
		Amount: core.Money{Cents: 1}, Source: "Lottery", Date: core.NewDate(2024, 3, 1),
	}); !errors.Is(err, core.ErrInvalidSource) {
		t.Errorf("bad source: got %v", err)
	}
}

func TestTransactionServiceExpenseCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRUCache[[]core.Expense](16, 5*time.Minute)
	svc := NewTransactionService(newTestRepo(t), nil, c)
	from, to := core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31)

	mustCreateExpense(t, svc, "u1", "Food", 100, core.NewDate(2024, 3, 5))

	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit"))
	if list, err := svc.ListExpenses(ctx, "u1", from, to); err != nil || len(list) != 1 {
		t.Fatalf("first list: %v %v", list, err)
	}
	if list, err := svc.ListExpenses(ctx, "u1", from, to); err != nil || len(list) != 1 {
		t.Fatalf("second list: %v %v", list, err)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")) - hits; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}

	// Writes invalidate the user's entries.
	e := mustCreateExpense(t, svc, "u1", "Travel", 200, core.NewDate(2024, 3, 6))
	if list, _ := svc.ListExpenses(ctx, "u1", from, to); len(list) != 2 {
		t.Fatalf("after create: %d expenses, want 2", len(list))
	}
	if err := svc.DeleteExpense(ctx, "u1", e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := svc.ListExpenses(ctx, "u1", from, to); len(list) != 1 {
		t.Fatalf("after delete: %d expenses, want 1", len(list))
	}

	if err := svc.DeleteExpense(ctx, "u2", e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("delete by other user: got %v", err)
	}
	if _, err := svc.ListExpenses(ctx, "u1", to, from); err == nil {
		t.Error("expected error for reversed range")
	}
}
