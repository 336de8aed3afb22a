package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQL keeps entries in the kv_entries table created by migrations.Run.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind(`SELECT payload FROM kv_entries WHERE storage_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *SQL) Set(ctx context.Context, key, payload string) error {
	query := s.db.Rebind(`INSERT INTO kv_entries (storage_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
                ON CONFLICT (storage_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`)
	if _, err := s.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
