package google

import (
	"context"
	"strings"
	"testing"

	"noskip/internal/core"
	"noskip/internal/sheets"
)

func TestNewClient_MissingSpreadsheetID(t *testing.T) {
	_, err := NewClient(context.Background(), "  ", "Transactions")
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewClient(context.Background(), "sheet-id", "")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("got %v, want missing credentials error", err)
	}
}

func TestClient_AppendValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test"} // svc is nil

	_, err := c.Append(context.Background(), sheets.Row{Kind: core.KindExpense, Amount: core.Money{Cents: 100}})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("got %v, want validation error", err)
	}

	_, err = c.Append(context.Background(), sheets.ExpenseRow(core.Expense{
		Date: core.NewDate(2024, 3, 1), Amount: core.Money{Cents: 100}, Category: "Food",
	}))
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("got %v, want not initialized error", err)
	}
}

func TestRowValues(t *testing.T) {
	got := rowValues(sheets.IncomeRow(core.Income{
		ID:     "i1",
		Date:   core.NewDate(2024, 3, 25),
		Amount: core.Money{Cents: 250050},
		Source: core.SourceSalary,
		Note:   "March",
	}))
	want := []any{"2024-03-25", "income", "Salary", 2500.5, "March", "i1"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("col %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2024, "2024 Transactions"},
		{"2023 Transactions", 2024, "2023 Transactions"},
		{"  Ledger ", 2025, "2025 Ledger"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}
