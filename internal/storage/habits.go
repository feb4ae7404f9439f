package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"noskip/internal/core"
)

const habitColumns = `id, user_id, name, emoji, frequency_type, custom_days, preferred_time, start_date, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (core.Habit, error) {
	var (
		h      core.Habit
		active int
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Emoji, &h.FrequencyType, &h.CustomDays,
		&h.PreferredTime, &h.StartDate, &active, &h.CreatedAt)
	h.IsActive = active != 0
	return h, err
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, h core.Habit) (core.Habit, error) {
	h.ID = newID()
	h.CreatedAt = r.now().UTC()
	h.CustomDays = h.CustomDays.Normalize()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Name, h.Emoji, string(h.FrequencyType), h.CustomDays,
		h.PreferredTime, h.StartDate, boolToInt(h.IsActive), h.CreatedAt)
	if err != nil {
		return core.Habit{}, fmt.Errorf("create habit: %w", err)
	}

	slog.InfoContext(ctx, "Habit created", "id", h.ID, "user_id", h.UserID, "name", h.Name)
	return h, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, h core.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, emoji = ?, frequency_type = ?, custom_days = ?, preferred_time = ?,
		    start_date = ?, is_active = ?
		WHERE id = ? AND user_id = ?`,
		h.Name, h.Emoji, string(h.FrequencyType), h.CustomDays.Normalize(), h.PreferredTime,
		h.StartDate, boolToInt(h.IsActive), h.ID, h.UserID)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("update habit %s: %w", h.ID, err)
	}

	slog.InfoContext(ctx, "Habit updated", "id", h.ID, "user_id", h.UserID)
	return nil
}

// DeleteHabit removes the habit and all of its completions.
func (r *SQLiteRepository) DeleteHabit(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete habit: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if err := expectOne(res); err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	// The FK cascade covers this too; kept explicit for connections opened
	// without foreign_keys enabled.
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("delete habit completions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete habit: %w", err)
	}

	slog.InfoContext(ctx, "Habit deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, userID, id string) (core.Habit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	if err != nil {
		return core.Habit{}, fmt.Errorf("get habit %s: %w", id, notFound(err))
	}
	return h, nil
}

func (r *SQLiteRepository) ListHabits(ctx context.Context, userID string, activeOnly bool) ([]core.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	habits := []core.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// ListCompletions returns every completion of the user's habits dated on or
// after since.
func (r *SQLiteRepository) ListCompletions(ctx context.Context, userID string, since core.Date) ([]core.HabitCompletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.habit_id, c.date, c.is_retroactive, c.created_at
		FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = ? AND c.date >= ?
		ORDER BY c.date, c.habit_id`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []core.HabitCompletion
	for rows.Next() {
		var (
			c     core.HabitCompletion
			retro int
		)
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &retro, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.IsRetroactive = retro != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return out, nil
}

// ToggleCompletion deletes the completion for (habit, date) if it exists
// and inserts it otherwise. It reports whether the habit is now completed
// on date. A completion logged for a day other than today is retroactive.
func (r *SQLiteRepository) ToggleCompletion(ctx context.Context, userID, habitID string, date, today core.Date) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle completion: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM habits WHERE id = ?`, habitID).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != userID) {
		return false, fmt.Errorf("toggle completion for habit %s: %w", habitID, core.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("load habit owner: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = ? AND date = ?`, habitID, date)
	if err != nil {
		return false, fmt.Errorf("delete completion: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete completion: %w", err)
	}

	completed := removed == 0
	if completed {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habit_completions (id, habit_id, date, is_retroactive, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			newID(), habitID, date, boolToInt(!date.Equal(today)), r.now().UTC())
		if err != nil {
			return false, fmt.Errorf("insert completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle completion: %w", err)
	}

	slog.InfoContext(ctx, "Habit completion toggled",
		"habit_id", habitID,
		"date", date.String(),
		"completed", completed)
	return completed, nil
}

// ListHabitsByPreferredTime returns active habits of every user whose
// preferred time is hhmm. The reminder worker calls it once a minute.
func (r *SQLiteRepository) ListHabitsByPreferredTime(ctx context.Context, hhmm string) ([]core.Habit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE is_active = 1 AND preferred_time = ? ORDER BY user_id, created_at`, hhmm)
	if err != nil {
		return nil, fmt.Errorf("list habits by preferred time: %w", err)
	}
	defer rows.Close()

	var habits []core.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list habits by preferred time: %w", err)
	}
	return habits, nil
}
