package storage

import (
	"context"
	"fmt"
)

// GetPreference returns the stored blob for key, or core.ErrNotFound.
func (r *SQLiteRepository) GetPreference(ctx context.Context, userID, key string) ([]byte, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`, userID, key).Scan(&blob)
	if err != nil {
		return nil, fmt.Errorf("get preference %s: %w", key, notFound(err))
	}
	return blob, nil
}

// PutPreference replaces the whole value stored under key.
func (r *SQLiteRepository) PutPreference(ctx context.Context, userID, key string, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, blob, r.now().UTC())
	if err != nil {
		return fmt.Errorf("put preference %s: %w", key, err)
	}
	return nil
}
