package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, type, content, link, actor_id, actor_name, target_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id::text, created_at
	`, n.RecipientID, string(n.Type), n.Content, n.Link, n.ActorID, n.ActorName, n.TargetID, n.IsRead, nullTime(n))
	return row.Scan(&n.ID, &n.CreatedAt)
}

func nullTime(n *entity.Notification) any {
	if n.CreatedAt.IsZero() {
		return nil
	}
	return n.CreatedAt
}

const notificationSelect = `
	SELECT id::text, recipient_id::text, type, content, link, actor_id, actor_name, target_id, is_read, created_at
	FROM notifications`

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 200
	}
	return r.query(ctx, notificationSelect+`
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, recipientID, limit)
}

func (r *NotificationRepository) ListByType(ctx context.Context, recipientID string, typ entity.NotificationType) ([]*entity.Notification, error) {
	return r.query(ctx, notificationSelect+`
		WHERE recipient_id = $1 AND type = $2
		ORDER BY created_at DESC, id DESC
	`, recipientID, string(typ))
}

func (r *NotificationRepository) Get(ctx context.Context, recipientID, id string) (*entity.Notification, error) {
	list, err := r.query(ctx, notificationSelect+`
		WHERE recipient_id = $1 AND id = $2
	`, recipientID, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return list[0], nil
}

func (r *NotificationRepository) query(ctx context.Context, q string, args ...any) ([]*entity.Notification, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, notFound(err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Notification, error) {
		n := &entity.Notification{}
		var typ string
		err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.Content, &n.Link, &n.ActorID, &n.ActorName, &n.TargetID, &n.IsRead, &n.CreatedAt)
		n.Type = entity.NotificationType(typ)
		return n, err
	})
	return list, notFound(err)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipientID).Scan(&n)
	return n, notFound(err)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND id::text = ANY($2)`, recipientID, ids)
	if err != nil {
		return 0, notFound(err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	if err != nil {
		return 0, notFound(err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE recipient_id = $1 AND id::text = ANY($2)`, recipientID, ids)
	if err != nil {
		return 0, notFound(err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
