// Package store keeps users in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"fullyhacks/internal/model"
)

// MemoryPath opens a throwaway in-memory database.
const MemoryPath = ":memory:"

// Schema creates the users table. It runs on every start, so it must be
// idempotent.
const Schema = `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL,
        password TEXT NOT NULL,
        bio TEXT
    );
`


// Store provides SQLite-backed user persistence.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and checks the connection.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// every new connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle for callers that want to run SQL directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate executes Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Reset deletes every user and restarts id numbering at 1.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	// sqlite_sequence exists only after the first AUTOINCREMENT insert
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'users'"); err != nil &&
		!strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("reset user ids: %w", err)
	}
	return tx.Commit()
}

// CreateUser inserts a user and returns it with its new id.
func (s *Store) CreateUser(ctx context.Context, username, password string, bio *string) (model.User, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password, bio) VALUES (?, ?, ?) RETURNING id",
		username, password, nullString(bio),
	).Scan(&id)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user %s: %w", username, err)
	}
	return model.User{ID: id, Username: username, Password: password, Bio: bio}, nil
}

// UserByUsername returns the first user with the given name, or nil when
// there is none.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password, bio FROM users WHERE username = ? ORDER BY id LIMIT 1",
		username,
	)
	u, err := ScanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) (model.Users, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, password, bio FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := model.Users{}
	for rows.Next() {
		u, err := ScanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateBio sets the bio of every user named username.
func (s *Store) UpdateBio(ctx context.Context, username string, bio *string) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE users SET bio = ? WHERE username = ?", nullString(bio), username); err != nil {
		return fmt.Errorf("update bio of %s: %w", username, err)
	}
	return nil
}

// DeleteUser removes every user named username.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username); err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	return nil
}

// Row is satisfied by *sql.Row and *sql.Rows.
type Row interface {
	Scan(dest ...any) error
}

// ScanUser reads an (id, username, password, bio) row into a User.
func ScanUser(row Row) (model.User, error) {
	var (
		u   model.User
		bio sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &bio); err != nil {
		return model.User{}, err
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	return u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
