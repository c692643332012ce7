package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

const eventColumns = `id::text, title, description, location, image_url, start_time, end_time, status, creator_id::text, created_at, updated_at`

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	var status string
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL,
		&e.StartTime, &e.EndTime, &status, &e.CreatorID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = entity.EventStatus(status)
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, location, image_url, start_time, end_time, status, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, e.Title, e.Description, e.Location, e.ImageURL, e.StartTime, e.EndTime, string(e.Status), e.CreatorID)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context, f repository.EventFilter) ([]*entity.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CreatorID != "" {
		args = append(args, f.CreatorID)
		where = append(where, fmt.Sprintf("creator_id = $%d", len(args)))
	}
	q := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY start_time, id"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, notFound(err)
	}
	defer rows.Close()

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
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET title = $1, description = $2, location = $3, image_url = $4, start_time = $5, end_time = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, e.Title, e.Description, e.Location, e.ImageURL, e.StartTime, e.EndTime, e.ID)
	if err := row.Scan(&e.UpdatedAt); err != nil {
		return notFound(err)
	}
	return nil
}

func (r *EventRepository) TransitionStatus(ctx context.Context, id string, from, to entity.EventStatus, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), at, id, string(from))
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var one int
	if err := r.pool.QueryRow(ctx, `SELECT 1 FROM events WHERE id = $1`, id).Scan(&one); err != nil {
		return notFound(err)
	}
	return repository.ErrStaleState
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
