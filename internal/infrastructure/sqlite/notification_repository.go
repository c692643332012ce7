package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type NotificationRepository struct {
	db *sql.DB
}

const notificationColumns = `id, recipient_id, type, content, link, actor_id, actor_name, target_id, is_read, created_at`

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.RecipientID, string(n.Type), n.Content, n.Link, n.ActorID, n.ActorName, n.TargetID,
		boolInt(n.IsRead), toMillis(n.CreatedAt))
	return err
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 200
	}
	return r.query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE recipient_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, recipientID, limit)
}

func (r *NotificationRepository) ListByType(ctx context.Context, recipientID string, typ entity.NotificationType) ([]*entity.Notification, error) {
	return r.query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE recipient_id = ? AND type = ?
		ORDER BY created_at DESC, id DESC
	`, recipientID, string(typ))
}

func (r *NotificationRepository) Get(ctx context.Context, recipientID, id string) (*entity.Notification, error) {
	list, err := r.query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE recipient_id = ? AND id = ?
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
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Notification
	for rows.Next() {
		var (
			n       entity.Notification
			typ     string
			read    int
			created int64
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &typ, &n.Content, &n.Link, &n.ActorID, &n.ActorName,
			&n.TargetID, &read, &created); err != nil {
			return nil, err
		}
		n.Type = entity.NotificationType(typ)
		n.IsRead = read != 0
		n.CreatedAt = fromMillis(created)
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = 0`, recipientID).Scan(&n)
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{recipientID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1
		WHERE recipient_id = ? AND id IN (`+placeholders(len(ids))+`)
	`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE recipient_id = ? AND is_read = 0`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{recipientID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE recipient_id = ? AND id IN (`+placeholders(len(ids))+`)
	`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
