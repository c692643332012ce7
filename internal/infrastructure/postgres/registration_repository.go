package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

const registrationSelect = `
	SELECT r.user_id::text, r.event_id::text, r.status, r.registered_at, r.updated_at, u.name, u.email
	FROM registrations r JOIN users u ON u.id = r.user_id`

func scanRegistration(row pgx.Row) (*entity.Registration, error) {
	reg := &entity.Registration{}
	var status string
	if err := row.Scan(&reg.UserID, &reg.EventID, &status, &reg.RegisteredAt, &reg.UpdatedAt, &reg.UserName, &reg.UserEmail); err != nil {
		return nil, err
	}
	reg.Status = entity.RegistrationStatus(status)
	return reg, nil
}

// Create inserts under the (user_id, event_id) primary key; a concurrent
// duplicate surfaces as ErrConflict.
func (r *RegistrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO registrations (user_id, event_id, status)
		VALUES ($1, $2, $3)
		RETURNING registered_at, updated_at
	`, reg.UserID, reg.EventID, string(reg.Status))
	err := row.Scan(&reg.RegisteredAt, &reg.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *RegistrationRepository) Get(ctx context.Context, eventID, userID string) (*entity.Registration, error) {
	reg, err := scanRegistration(r.pool.QueryRow(ctx, registrationSelect+` WHERE r.event_id = $1 AND r.user_id = $2`, eventID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return reg, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*entity.Registration, error) {
	return r.list(ctx, registrationSelect+` WHERE r.event_id = $1 ORDER BY r.registered_at, r.user_id`, eventID)
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Registration, error) {
	return r.list(ctx, registrationSelect+` WHERE r.user_id = $1 ORDER BY r.registered_at DESC, r.event_id`, userID)
}

func (r *RegistrationRepository) list(ctx context.Context, q string, args ...any) ([]*entity.Registration, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, notFound(err)
	}
	defer rows.Close()

	var out []*entity.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) UserIDsByStatus(ctx context.Context, eventID string, statuses ...entity.RegistrationStatus) ([]string, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text FROM registrations
		WHERE event_id = $1 AND status = ANY($2)
		ORDER BY registered_at, user_id
	`, eventID, statusStrings(statuses))
	if err != nil {
		return nil, notFound(err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *RegistrationRepository) TransitionStatus(ctx context.Context, eventID, userID string, from, to entity.RegistrationStatus, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE registrations SET status = $1, updated_at = $2
		WHERE event_id = $3 AND user_id = $4 AND status = $5
	`, string(to), at, eventID, userID, string(from))
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.missOrStale(ctx, eventID, userID)
}

func (r *RegistrationRepository) DeleteInStatus(ctx context.Context, eventID, userID string, statuses ...entity.RegistrationStatus) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status = ANY($3)
	`, eventID, userID, statusStrings(statuses))
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.missOrStale(ctx, eventID, userID)
}

func (r *RegistrationRepository) missOrStale(ctx context.Context, eventID, userID string) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&one)
	if err != nil {
		return notFound(err)
	}
	return repository.ErrStaleState
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
