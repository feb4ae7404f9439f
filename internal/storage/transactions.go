package storage

import (
	"context"
	"fmt"
	"log/slog"

	"noskip/internal/core"
)

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = newID()
	e.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount_cents, category, date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount.Cents, e.Category, e.Date, e.Note, e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date.String())
	return e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return nil
}

// GetExpense loads an expense by ID alone. Only the sync worker uses it; the
// ID comes from a message the service itself published.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, category, date, note, created_at
		FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.Date, &e.Note, &e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, notFound(err))
	}
	return e, nil
}

// ListExpenses returns the user's expenses dated within [from, to], oldest
// first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string, from, to core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, date, note, created_at
		FROM expenses
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, created_at`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.Date, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	in.ID = newID()
	in.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incomes (id, user_id, amount_cents, source, date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Amount.Cents, string(in.Source), in.Date, in.Note, in.CreatedAt)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", in.ID,
		"user_id", in.UserID,
		"amount_cents", in.Amount.Cents,
		"source", in.Source,
		"date", in.Date.String())
	return in, nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete income %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Income deleted", "id", id, "user_id", userID)
	return nil
}

// GetIncome loads an income by ID alone, for the sync worker.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id string) (core.Income, error) {
	var in core.Income
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, source, date, note, created_at
		FROM incomes WHERE id = ?`, id).
		Scan(&in.ID, &in.UserID, &in.Amount.Cents, &in.Source, &in.Date, &in.Note, &in.CreatedAt)
	if err != nil {
		return core.Income{}, fmt.Errorf("get income %s: %w", id, notFound(err))
	}
	return in, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string, from, to core.Date) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, source, date, note, created_at
		FROM incomes
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, created_at`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	out := []core.Income{}
	for rows.Next() {
		var in core.Income
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount.Cents, &in.Source, &in.Date, &in.Note, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return out, nil
}

// MarkSynced records that a transaction was exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind core.TransactionKind, id string) error {
	var table string
	switch kind {
	case core.KindExpense:
		table = "expenses"
	case core.KindIncome:
		table = "incomes"
	default:
		return fmt.Errorf("mark synced: unknown kind %q", kind)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET synced_at = ? WHERE id = ?`, r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark %s synced: %w", kind, err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("mark %s %s synced: %w", kind, id, err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "kind", kind, "id", id)
	return nil
}

// PendingSync identifies a transaction that has not been exported yet.
type PendingSync struct {
	Kind core.TransactionKind
	ID   string
}

// ListUnsynced returns up to limit transactions without synced_at, oldest
// first. The sync worker uses it to recover from lost messages.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, id FROM (
			SELECT 'expense' AS kind, id, created_at FROM expenses WHERE synced_at IS NULL
			UNION ALL
			SELECT 'income' AS kind, id, created_at FROM incomes WHERE synced_at IS NULL
		)
		ORDER BY created_at
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var (
			p    PendingSync
			kind string
		)
		if err := rows.Scan(&kind, &p.ID); err != nil {
			return nil, fmt.Errorf("scan unsynced: %w", err)
		}
		p.Kind = core.TransactionKind(kind)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	return out, nil
}
