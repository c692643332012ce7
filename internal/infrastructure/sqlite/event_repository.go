package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type EventRepository struct {
	db *sql.DB
}

const eventColumns = `id, title, description, location, image_url, start_time, end_time, status, creator_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*entity.Event, error) {
	var (
		e                            entity.Event
		status                       string
		start, end, created, updated int64
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL,
		&start, &end, &status, &e.CreatorID, &created, &updated); err != nil {
		return nil, err
	}
	e.Status = entity.EventStatus(status)
	e.StartTime = fromMillis(start)
	e.EndTime = fromMillis(end)
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(updated)
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Title, e.Description, e.Location, e.ImageURL,
		toMillis(e.StartTime), toMillis(e.EndTime), string(e.Status), e.CreatorID,
		toMillis(now), toMillis(now))
	return err
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	return e, notFound(err)
}

func (r *EventRepository) List(ctx context.Context, f repository.EventFilter) ([]*entity.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.CreatorID != "" {
		where = append(where, "creator_id = ?")
		args = append(args, f.CreatorID)
	}
	q := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY start_time, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, description = ?, location = ?, image_url = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`, e.Title, e.Description, e.Location, e.ImageURL, toMillis(e.StartTime), toMillis(e.EndTime),
		toMillis(e.UpdatedAt), e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) TransitionStatus(ctx context.Context, id string, from, to entity.EventStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), toMillis(at), id, string(from))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	return r.missOrStale(ctx, id)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) missOrStale(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&one)
	if err != nil {
		return notFound(err)
	}
	return repository.ErrStaleState
}

var _ repository.EventRepository = (*EventRepository)(nil)
