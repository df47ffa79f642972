package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Users table - identity records for local and OAuth accounts
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			is_admin INTEGER NOT NULL DEFAULT 0,
			first_login DATETIME,
			last_login DATETIME,
			agreed_terms_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// OAuth tokens table - one credential blob per provider per user,
		// overwritten on refresh
		`CREATE TABLE IF NOT EXISTS oauth_tokens (
			id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(provider, user_id)
		)`,

		// Translation sessions table - one row per live-recognition session
		`CREATE TABLE IF NOT EXISTS translation_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			start_time DATETIME NOT NULL,
			end_time DATETIME,
			duration_seconds INTEGER
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_oauth_tokens_user_id ON oauth_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_translation_sessions_user_id ON translation_sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_translation_sessions_start_time ON translation_sessions(start_time)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
