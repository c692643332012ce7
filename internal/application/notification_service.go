package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/notification"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

// Message is the recipient-independent part of a notification.
type Message struct {
	Type      entity.NotificationType `json:"type"`
	Content   string                  `json:"content"`
	Link      string                  `json:"link,omitempty"`
	ActorID   string                  `json:"actor_id,omitempty"`
	ActorName string                  `json:"actor_name,omitempty"`
	TargetID  string                  `json:"target_id,omitempty"`
	// OccurredAt is when the triggering action happened. Zero means now.
	OccurredAt time.Time `json:"occurred_at,omitzero"`
}

// NotificationService persists notifications and serves the recipient's
// inbox, flat or grouped.
type NotificationService struct {
	Repo      repository.NotificationRepository
	Logger    *logrus.Logger
	Window    time.Duration
	ListLimit int
	Now       func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, logger *logrus.Logger, window time.Duration, listLimit int) *NotificationService {
	if window <= 0 {
		window = notification.DefaultWindow
	}
	if listLimit <= 0 {
		listLimit = 200
	}
	return &NotificationService{Repo: repo, Logger: logger, Window: window, ListLimit: listLimit, Now: time.Now}
}

func (s *NotificationService) now() time.Time { return s.Now().UTC() }

// Emit persists one notification for recipientID.
func (s *NotificationService) Emit(ctx context.Context, recipientID string, m Message) (*entity.Notification, error) {
	if recipientID == "" {
		return nil, validationf("recipient is required")
	}
	if strings.TrimSpace(m.Content) == "" || m.Type == "" {
		return nil, validationf("notification type and content are required")
	}
	n := &entity.Notification{
		RecipientID: recipientID,
		Type:        m.Type,
		Content:     m.Content,
		Link:        m.Link,
		ActorID:     m.ActorID,
		ActorName:   m.ActorName,
		TargetID:    m.TargetID,
		CreatedAt:   s.now(),
	}
	if !m.OccurredAt.IsZero() {
		n.CreatedAt = m.OccurredAt.UTC()
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// EmitBulk persists m once per distinct recipient. Each insert stands on its
// own: a failure for one recipient is collected and the rest still run.
func (s *NotificationService) EmitBulk(ctx context.Context, recipientIDs []string, m Message) error {
	seen := make(map[string]struct{}, len(recipientIDs))
	var errs []error
	for _, id := range recipientIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.Emit(ctx, id, m); err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Notify implements Notifier by writing in the caller's request.
func (s *NotificationService) Notify(ctx context.Context, recipientIDs []string, m Message) {
	if err := s.EmitBulk(ctx, recipientIDs, m); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("type", m.Type).Warn("notification emit failed")
	}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return s.Repo.ListByRecipient(ctx, userID, s.ListLimit)
}

// Grouped returns the recipient's latest notifications collapsed into
// display groups.
func (s *NotificationService) Grouped(ctx context.Context, userID string) ([]notification.Group, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notification.Collapse(list, s.Window), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	n, err := s.Repo.MarkRead(ctx, userID, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.Repo.Delete(ctx, userID, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("notification not found")
	}
	return nil
}

// MarkGroupRead marks every member of the group represented by groupID.
func (s *NotificationService) MarkGroupRead(ctx context.Context, userID, groupID string) (notification.Group, error) {
	g, err := s.group(ctx, userID, groupID)
	if err != nil {
		return g, err
	}
	if _, err := s.Repo.MarkRead(ctx, userID, g.MemberIDs); err != nil {
		return g, err
	}
	g.IsRead = true
	return g, nil
}

// DeleteGroup deletes every member of the group represented by groupID.
func (s *NotificationService) DeleteGroup(ctx context.Context, userID, groupID string) (notification.Group, error) {
	g, err := s.group(ctx, userID, groupID)
	if err != nil {
		return g, err
	}
	if _, err := s.Repo.Delete(ctx, userID, g.MemberIDs); err != nil {
		return g, err
	}
	return g, nil
}

func (s *NotificationService) group(ctx context.Context, userID, groupID string) (notification.Group, error) {
	n, err := s.Repo.Get(ctx, userID, groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return notification.Group{}, notFoundf("notification group not found")
	}
	if err != nil {
		return notification.Group{}, err
	}
	if !notification.Groupable(n) {
		return notification.Collapse([]*entity.Notification{n}, s.Window)[0], nil
	}
	// Same-type rows are read without the inbox limit so the cascade reaches
	// every member.
	list, err := s.Repo.ListByType(ctx, userID, n.Type)
	if err != nil {
		return notification.Group{}, err
	}
	g, ok := notification.Find(notification.Collapse(list, s.Window), groupID)
	if !ok {
		return notification.Group{}, notFoundf("notification group not found")
	}
	return g, nil
}
