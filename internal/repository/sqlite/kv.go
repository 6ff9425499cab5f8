package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/novacart/internal/domain"
)

type substrate struct {
	db *sql.DB
}

func (s *substrate) Scope(name string) domain.KeyValueStore {
	return &kvStore{db: s.db, scope: name}
}

// kvStore implements domain.KeyValueStore over rows of one scope.
type kvStore struct {
	db    *sql.DB
	scope string
}

func (s *kvStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv_entries WHERE scope = ? AND key = ?", s.scope, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get kv entry: %w", err)
	}
	return value, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.scope, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}
	return nil
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM kv_entries WHERE scope = ? AND key = ?", s.scope, key,
	)
	if err != nil {
		return fmt.Errorf("remove kv entry: %w", err)
	}
	return nil
}
