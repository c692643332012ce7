// Package sqlite provides a SQLite-backed Record Store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

//go:embed schema.sql
var schema string

// Store persists all records in one SQLite database.
type Store struct {
	db *sql.DB

	users         *UserRepository
	events        *EventRepository
	registrations *RegistrationRepository
	notifications *NotificationRepository
	posts         *PostRepository
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and avoids "database is locked".
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{
		db:            db,
		users:         &UserRepository{db: db},
		events:        &EventRepository{db: db},
		registrations: &RegistrationRepository{db: db},
		notifications: &NotificationRepository{db: db},
		posts:         &PostRepository{db: db},
	}, nil
}

func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Events() repository.EventRepository               { return s.events }
func (s *Store) Registrations() repository.RegistrationRepository { return s.registrations }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Posts() repository.PostRepository                 { return s.posts }

// DB exposes the handle for tests and tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ repository.Store = (*Store)(nil)
