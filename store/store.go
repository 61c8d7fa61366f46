package store

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

// PostgresStore is a SessionStore backed by the session_items table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// GetItem returns the stored value. A missing row is reported with ok=false
// and no error.
func (s *PostgresStore) GetItem(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM session_items WHERE session_id = $1 AND key = $2`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem upserts the value for (sessionID, key).
func (s *PostgresStore) SetItem(ctx context.Context, sessionID, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO session_items (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, sessionID, key, value)
	return err
}

func (s *PostgresStore) RemoveItem(ctx context.Context, sessionID, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM session_items WHERE session_id = $1 AND key = $2`, sessionID, key)
	return err
}

// Clear drops every item of the session.
func (s *PostgresStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM session_items WHERE session_id = $1`, sessionID)
	return err
}
