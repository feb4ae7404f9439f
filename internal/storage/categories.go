package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"noskip/internal/core"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("already exists")

func (r *SQLiteRepository) CreateCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error) {
	c.ID = newID()
	c.CreatedAt = r.now().UTC()
	c.Name = strings.TrimSpace(c.Name)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO custom_categories (id, user_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Color, c.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.CustomCategory{}, fmt.Errorf("create category %q: %w", c.Name, ErrDuplicate)
		}
		return core.CustomCategory{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Custom category created", "id", c.ID, "user_id", c.UserID, "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) ListCustomCategories(ctx context.Context, userID string) ([]core.CustomCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, color, created_at
		FROM custom_categories
		WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.CustomCategory{}
	for rows.Next() {
		var c core.CustomCategory
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// DeleteCustomCategory removes the category. Expenses that used it keep the
// name and resolve to Other from then on.
func (r *SQLiteRepository) DeleteCustomCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Custom category deleted", "id", id, "user_id", userID)
	return nil
}
