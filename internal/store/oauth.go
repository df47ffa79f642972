package store

import (
	"database/sql"
	"errors"
	"time"
)

// OAuthToken is an opaque credential blob issued by an external identity
// provider. Token holds the provider's token response as JSON.
type OAuthToken struct {
	ID        string
	Provider  string
	UserID    string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OAuthTokenRepository provides storage for provider-issued tokens.
type OAuthTokenRepository struct {
	db dbtx
}

// OAuthTokens returns the OAuth token repository for this store.
func (s *Store) OAuthTokens() *OAuthTokenRepository {
	return &OAuthTokenRepository{db: s.db}
}

// OAuthTokensTx returns an OAuth token repository bound to the given transaction.
func (s *Store) OAuthTokensTx(tx *sql.Tx) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: tx}
}

// Upsert stores the token for (provider, user), overwriting any existing
// blob. Each user holds at most one token per provider.
func (r *OAuthTokenRepository) Upsert(t *OAuthToken) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO oauth_tokens (id, provider, user_id, token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(provider, user_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		t.ID, t.Provider, t.UserID, t.Token, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// Get retrieves the token stored for (provider, user).
func (r *OAuthTokenRepository) Get(provider, userID string) (*OAuthToken, error) {
	t := &OAuthToken{}

	err := r.db.QueryRow(
		`SELECT id, provider, user_id, token, created_at, updated_at
		 FROM oauth_tokens WHERE provider = ? AND user_id = ?`,
		provider, userID,
	).Scan(&t.ID, &t.Provider, &t.UserID, &t.Token, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

// Delete removes the token stored for (provider, user).
func (r *OAuthTokenRepository) Delete(provider, userID string) error {
	result, err := r.db.Exec(
		`DELETE FROM oauth_tokens WHERE provider = ? AND user_id = ?`,
		provider, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}
