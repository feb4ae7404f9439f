package memory

import (
	"context"
	"testing"

	"noskip/internal/core"
	"noskip/internal/sheets"
)

func TestMemoryStoreAppend(t *testing.T) {
	s := New()
	row := sheets.ExpenseRow(core.Expense{
		ID:       "e1",
		Date:     core.NewDate(2024, 3, 1),
		Amount:   core.Money{Cents: 123},
		Category: "Food",
	})

	ref, err := s.Append(context.Background(), row)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	ref, err = s.Append(context.Background(), row)
	if err != nil || ref != "mem:1" {
		t.Fatalf("duplicate append: ref=%q err=%v", ref, err)
	}
	if got := len(s.Rows()); got != 1 {
		t.Fatalf("rows = %d, want 1", got)
	}

	income := sheets.IncomeRow(core.Income{
		ID: "e1", Date: core.NewDate(2024, 3, 2), Amount: core.Money{Cents: 5000}, Source: core.SourceGift,
	})
	if ref, err := s.Append(context.Background(), income); err != nil || ref != "mem:2" {
		t.Fatalf("income append: ref=%q err=%v", ref, err)
	}
}

func TestMemoryStoreRejectsInvalidRows(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), sheets.Row{Kind: core.KindExpense, Date: core.NewDate(2024, 3, 1)})
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}
