package repository

import (
	"context"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListByRecipient returns the newest notifications first.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error)
	// Get returns ErrNotFound unless id belongs to recipientID.
	Get(ctx context.Context, recipientID, id string) (*entity.Notification, error)
	// ListByType returns every notification of one type for recipientID,
	// newest first, without a limit.
	ListByType(ctx context.Context, recipientID string, typ entity.NotificationType) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	// MarkRead and Delete only touch rows owned by recipientID and return the
	// number of affected rows.
	MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, recipientID string, ids []string) (int64, error)
}
