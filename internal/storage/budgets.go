package storage

import (
	"context"
	"fmt"
	"log/slog"

	"noskip/internal/core"
)

// UpsertBudget writes the budget for (user, category, month), replacing the
// amount of an existing one. The returned budget carries the stored ID.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.Month = b.Month.FirstOfMonth()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount_cents, month)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category, month) DO UPDATE SET amount_cents = excluded.amount_cents
		RETURNING id`,
		newID(), b.UserID, b.Category, b.Amount.Cents, b.Month).Scan(&b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"user_id", b.UserID,
		"category", b.Category,
		"month", b.Month.MonthKey(),
		"amount_cents", b.Amount.Cents)
	return b, nil
}

// ListBudgets returns the budgets of the month containing month.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string, month core.Date) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount_cents, month
		FROM budgets
		WHERE user_id = ? AND month = ?
		ORDER BY category`, userID, month.FirstOfMonth())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete budget %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return nil
}
