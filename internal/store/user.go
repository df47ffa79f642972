package store

import (
	"database/sql"
	"errors"
	"time"
)

// User represents an account stored in the database. PasswordHash is empty
// for accounts provisioned through OAuth that never set a local password.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	IsAdmin       bool
	FirstLogin    *time.Time
	LastLogin     *time.Time
	AgreedTermsAt *time.Time
	CreatedAt     time.Time
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside an explicit transaction scope.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// UserRepository provides CRUD operations for users.
type UserRepository struct {
	db dbtx
}

// Users returns the user repository for this store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db}
}

// UsersTx returns a user repository bound to the given transaction.
func (s *Store) UsersTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

const userColumns = `id, username, email, password_hash, is_admin, first_login, last_login, agreed_terms_at, created_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO users (id, username, email, password_hash, is_admin, first_login, last_login, agreed_terms_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, nullString(u.PasswordHash), u.IsAdmin,
		nullTime(u.FirstLogin), nullTime(u.LastLogin), nullTime(u.AgreedTermsAt), u.CreatedAt,
	)
	return err
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(id string) (*User, error) {
	return r.getBy(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(email string) (*User, error) {
	return r.getBy(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(username string) (*User, error) {
	return r.getBy(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepository) getBy(query string, arg any) (*User, error) {
	u, err := scanUser(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// List retrieves all users ordered by creation time, newest first.
func (r *UserRepository) List() ([]*User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Update updates an existing user's mutable fields.
func (r *UserRepository) Update(u *User) error {
	result, err := r.db.Exec(
		`UPDATE users SET username = ?, email = ?, password_hash = ?, is_admin = ?,
		 first_login = ?, last_login = ?, agreed_terms_at = ?
		 WHERE id = ?`,
		u.Username, u.Email, nullString(u.PasswordHash), u.IsAdmin,
		nullTime(u.FirstLogin), nullTime(u.LastLogin), nullTime(u.AgreedTermsAt), u.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a user. Owned sessions and tokens are removed by cascade.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// RecordLogin sets last_login to now and first_login when it was never set.
func (r *UserRepository) RecordLogin(id string, now time.Time) error {
	result, err := r.db.Exec(
		`UPDATE users SET last_login = ?, first_login = COALESCE(first_login, ?) WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Count returns the total number of users.
func (r *UserRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CountFirstLoginSince returns how many users logged in for the first time
// at or after the given instant.
func (r *UserRepository) CountFirstLoginSince(since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE first_login >= ?`, since).Scan(&n)
	return n, err
}

// RecentByLastLogin returns up to limit users that have logged in, most
// recent first.
func (r *UserRepository) RecentByLastLogin(limit int) ([]*User, error) {
	rows, err := r.db.Query(
		`SELECT `+userColumns+` FROM users WHERE last_login IS NOT NULL ORDER BY last_login DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	var passwordHash sql.NullString
	var firstLogin, lastLogin, agreedTermsAt sql.NullTime

	err := row.Scan(&u.ID, &u.Username, &u.Email, &passwordHash, &u.IsAdmin,
		&firstLogin, &lastLogin, &agreedTermsAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = passwordHash.String
	u.FirstLogin = timePtr(firstLogin)
	u.LastLogin = timePtr(lastLogin)
	u.AgreedTermsAt = timePtr(agreedTermsAt)
	return u, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
