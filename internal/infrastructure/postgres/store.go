package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

const (
	pgUniqueViolation      = "23505"
	pgInvalidTextRepresent = "22P02"
)

// Store is the Postgres-backed Record Store. The pool is owned by the caller.
type Store struct {
	pool *pgxpool.Pool

	users         *UserRepository
	events        *EventRepository
	registrations *RegistrationRepository
	notifications *NotificationRepository
	posts         *PostRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:          pool,
		users:         &UserRepository{pool: pool},
		events:        &EventRepository{pool: pool},
		registrations: &RegistrationRepository{pool: pool},
		notifications: &NotificationRepository{pool: pool},
		posts:         &PostRepository{pool: pool},
	}
}

func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Events() repository.EventRepository               { return s.events }
func (s *Store) Registrations() repository.RegistrationRepository { return s.registrations }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Posts() repository.PostRepository                 { return s.posts }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// notFound maps missing rows and malformed uuids to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresent {
		return repository.ErrNotFound
	}
	return err
}

func statusStrings[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

var _ repository.Store = (*Store)(nil)
