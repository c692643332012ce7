package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type RegistrationRepository struct {
	db *sql.DB
}

const registrationColumns = `r.user_id, r.event_id, r.status, r.registered_at, r.updated_at, u.name, u.email`

func scanRegistration(row interface{ Scan(...any) error }) (*entity.Registration, error) {
	var (
		reg                 entity.Registration
		status              string
		registered, updated int64
	)
	if err := row.Scan(&reg.UserID, &reg.EventID, &status, &registered, &updated, &reg.UserName, &reg.UserEmail); err != nil {
		return nil, err
	}
	reg.Status = entity.RegistrationStatus(status)
	reg.RegisteredAt = fromMillis(registered)
	reg.UpdatedAt = fromMillis(updated)
	return &reg, nil
}

// Create relies on the (user_id, event_id) primary key: of two concurrent
// inserts exactly one succeeds and the other gets ErrConflict.
func (r *RegistrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	reg.UpdatedAt = reg.RegisteredAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registrations (user_id, event_id, status, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, reg.UserID, reg.EventID, string(reg.Status), toMillis(reg.RegisteredAt), toMillis(reg.UpdatedAt))
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *RegistrationRepository) Get(ctx context.Context, eventID, userID string) (*entity.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ? AND r.user_id = ?
	`, eventID, userID))
	return reg, notFound(err)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*entity.Registration, error) {
	return r.list(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ?
		ORDER BY r.registered_at, r.user_id
	`, eventID)
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Registration, error) {
	return r.list(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations r JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ?
		ORDER BY r.registered_at DESC, r.event_id
	`, userID)
}

func (r *RegistrationRepository) list(ctx context.Context, q string, args ...any) ([]*entity.Registration, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
	args := []any{eventID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM registrations
		WHERE event_id = ? AND status IN (`+placeholders(len(statuses))+`)
		ORDER BY registered_at, user_id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RegistrationRepository) TransitionStatus(ctx context.Context, eventID, userID string, from, to entity.RegistrationStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE registrations SET status = ?, updated_at = ?
		WHERE event_id = ? AND user_id = ? AND status = ?
	`, string(to), toMillis(at), eventID, userID, string(from))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	return r.missOrStale(ctx, eventID, userID)
}

func (r *RegistrationRepository) DeleteInStatus(ctx context.Context, eventID, userID string, statuses ...entity.RegistrationStatus) error {
	args := []any{eventID, userID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM registrations
		WHERE event_id = ? AND user_id = ? AND status IN (`+placeholders(len(statuses))+`)
	`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	return r.missOrStale(ctx, eventID, userID)
}

func (r *RegistrationRepository) missOrStale(ctx context.Context, eventID, userID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM registrations WHERE event_id = ? AND user_id = ?`, eventID, userID).Scan(&one)
	if err != nil {
		return notFound(err)
	}
	return repository.ErrStaleState
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
