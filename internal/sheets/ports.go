package sheets

import (
	"context"
	"fmt"

	"noskip/internal/core"
)

// Row is one exported transaction.
type Row struct {
	ID     string
	Kind   core.TransactionKind
	Date   core.Date
	Label  string // category for expenses, source for incomes
	Amount core.Money
	Note   string
}

// Ports for outbound adapters.
type (
	TransactionExporter interface {
		Append(ctx context.Context, r Row) (rowRef string, err error)
	}
)

func ExpenseRow(e core.Expense) Row {
	return Row{ID: e.ID, Kind: core.KindExpense, Date: e.Date, Label: e.Category, Amount: e.Amount, Note: e.Note}
}

func IncomeRow(in core.Income) Row {
	return Row{ID: in.ID, Kind: core.KindIncome, Date: in.Date, Label: string(in.Source), Amount: in.Amount, Note: in.Note}
}

func (r Row) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("unknown transaction kind %q", r.Kind)
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	return r.Amount.Validate()
}
