package store

import (
	"database/sql"
	"errors"
	"time"
)

// TranslationSession is one live-recognition usage interval for a user.
// EndTime and DurationSeconds stay nil until the client signals completion;
// a session abandoned by a disconnecting client remains open.
type TranslationSession struct {
	ID              string
	UserID          string
	StartTime       time.Time
	EndTime         *time.Time
	DurationSeconds *int
}

// Closed reports whether the session has been explicitly ended.
func (t *TranslationSession) Closed() bool {
	return t.EndTime != nil
}

// Duration returns the recorded duration in seconds, or zero while the
// session is still open.
func (t *TranslationSession) Duration() int {
	if t.DurationSeconds == nil {
		return 0
	}
	return *t.DurationSeconds
}

// SessionRepository provides storage for translation sessions.
type SessionRepository struct {
	db dbtx
}

// Sessions returns the translation session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// SessionsTx returns a session repository bound to the given transaction.
func (s *Store) SessionsTx(tx *sql.Tx) *SessionRepository {
	return &SessionRepository{db: tx}
}

// Create inserts a new open translation session.
func (r *SessionRepository) Create(sess *TranslationSession) error {
	if sess.StartTime.IsZero() {
		sess.StartTime = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO translation_sessions (id, user_id, start_time) VALUES (?, ?, ?)`,
		sess.ID, sess.UserID, sess.StartTime,
	)
	return err
}

// GetForUser retrieves a session by ID, scoped to its owner. Requests for
// another user's session report ErrNotFound rather than existence.
func (r *SessionRepository) GetForUser(id, userID string) (*TranslationSession, error) {
	sess := &TranslationSession{}
	var endTime sql.NullTime
	var duration sql.NullInt64

	err := r.db.QueryRow(
		`SELECT id, user_id, start_time, end_time, duration_seconds
		 FROM translation_sessions WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&sess.ID, &sess.UserID, &sess.StartTime, &endTime, &duration)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.EndTime = timePtr(endTime)
	if duration.Valid {
		d := int(duration.Int64)
		sess.DurationSeconds = &d
	}
	return sess, nil
}

// Close records the end of an open session. Sessions that are already
// closed are left untouched (rows affected will be zero).
func (r *SessionRepository) Close(id string, end time.Time, durationSeconds int) error {
	result, err := r.db.Exec(
		`UPDATE translation_sessions SET end_time = ?, duration_seconds = ?
		 WHERE id = ? AND end_time IS NULL`,
		end, durationSeconds, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountForUser returns the number of sessions the user has started.
func (r *SessionRepository) CountForUser(userID string) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM translation_sessions WHERE user_id = ?`, userID,
	).Scan(&n)
	return n, err
}

// TotalDurationForUser returns the summed duration in seconds across the
// user's closed sessions. Open sessions contribute nothing.
func (r *SessionRepository) TotalDurationForUser(userID string) (int, error) {
	var total int
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM translation_sessions WHERE user_id = ?`,
		userID,
	).Scan(&total)
	return total, err
}

// RecentForUser returns up to limit sessions for the user, newest first.
func (r *SessionRepository) RecentForUser(userID string, limit int) ([]*TranslationSession, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, start_time, end_time, duration_seconds
		 FROM translation_sessions WHERE user_id = ?
		 ORDER BY start_time DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*TranslationSession
	for rows.Next() {
		sess := &TranslationSession{}
		var endTime sql.NullTime
		var duration sql.NullInt64

		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.StartTime, &endTime, &duration); err != nil {
			return nil, err
		}

		sess.EndTime = timePtr(endTime)
		if duration.Valid {
			d := int(duration.Int64)
			sess.DurationSeconds = &d
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
