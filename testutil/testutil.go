// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickpoll/db"
)

// NewLocalStorage opens a fresh sqlite session store in a temp dir
func NewLocalStorage(t *testing.T) *db.LocalStorage {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", "file:"+filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return db.NewLocalStorage(conn)
}

// MustGetItem reads a key from storage, failing the test on error
func MustGetItem(t *testing.T, s *db.LocalStorage, key string) (string, bool) {
	t.Helper()

	v, ok, err := s.GetItem(context.Background(), key)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", key, err)
	}
	return v, ok
}

// Recorder collects notifications so tests can assert on them
type Recorder struct {
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(msg string) { r.Successes = append(r.Successes, msg) }
func (r *Recorder) Error(msg string)   { r.Errors = append(r.Errors, msg) }

// LastError returns the most recent error notification, or ""
func (r *Recorder) LastError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[len(r.Errors)-1]
}

// LastSuccess returns the most recent success notification, or ""
func (r *Recorder) LastSuccess() string {
	if len(r.Successes) == 0 {
		return ""
	}
	return r.Successes[len(r.Successes)-1]
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
