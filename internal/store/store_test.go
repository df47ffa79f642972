package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"users", "oauth_tokens", "translation_sessions"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fkEnabled int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("failed to check foreign keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys should be enabled")
	}
}

func TestStore_IndexesCreated(t *testing.T) {
	s := newTestStore(t)

	indexes := []string{
		"idx_oauth_tokens_user_id",
		"idx_translation_sessions_user_id",
		"idx_translation_sessions_start_time",
	}
	for _, idx := range indexes {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			idx,
		).Scan(&name)
		if err != nil {
			t.Errorf("index %q should exist after migrations: %v", idx, err)
		}
	}
}

func TestStore_WithTx(t *testing.T) {
	s := newTestStore(t)

	t.Run("commits on success", func(t *testing.T) {
		err := s.WithTx(context.Background(), func(tx *sql.Tx) error {
			return s.UsersTx(tx).Create(&User{ID: "u1", Username: "alice", Email: "alice@example.com"})
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := s.Users().GetByID("u1"); err != nil {
			t.Errorf("user should exist after commit: %v", err)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		failure := errors.New("boom")
		err := s.WithTx(context.Background(), func(tx *sql.Tx) error {
			if err := s.UsersTx(tx).Create(&User{ID: "u2", Username: "bob", Email: "bob@example.com"}); err != nil {
				return err
			}
			return failure
		})
		if !errors.Is(err, failure) {
			t.Fatalf("expected wrapped failure, got %v", err)
		}

		if _, err := s.Users().GetByID("u2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("user should not exist after rollback, got err %v", err)
		}
	})
}
