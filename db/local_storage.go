// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LocalStorage is a string key/value store kept in the local_storage table
type LocalStorage struct {
	db *sql.DB
}

func NewLocalStorage(db *sql.DB) *LocalStorage {
	return &LocalStorage{db: db}
}

// GetItem returns the value for key; ok is false when the key is absent
func (s *LocalStorage) GetItem(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT value FROM local_storage WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem inserts or replaces the value for key
func (s *LocalStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
