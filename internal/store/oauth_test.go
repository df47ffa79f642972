package store

import (
	"errors"
	"testing"
)

func TestOAuthTokenRepository_UpsertOverwrites(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, &User{ID: "u1", Username: "alice", Email: "alice@example.com"})

	first := &OAuthToken{ID: "t1", Provider: "google", UserID: "u1", Token: `{"access_token":"one"}`}
	if err := s.OAuthTokens().Upsert(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Refresh replaces the stored blob for the same (provider, user).
	second := &OAuthToken{ID: "t2", Provider: "google", UserID: "u1", Token: `{"access_token":"two"}`}
	if err := s.OAuthTokens().Upsert(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.OAuthTokens().Get("google", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != `{"access_token":"two"}` {
		t.Errorf("expected refreshed token blob, got %s", got.Token)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM oauth_tokens`).Scan(&n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected a single token row per provider+user, got %d", n)
	}
}

func TestOAuthTokenRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.OAuthTokens().Get("google", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOAuthTokenRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, &User{ID: "u1", Username: "alice", Email: "alice@example.com"})

	tok := &OAuthToken{ID: "t1", Provider: "google", UserID: "u1", Token: `{}`}
	if err := s.OAuthTokens().Upsert(tok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.OAuthTokens().Delete("google", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.OAuthTokens().Delete("google", "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}
