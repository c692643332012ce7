package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers a workflow's notification fact. Delivery is best-effort:
// implementations log failures and never report them to the caller.
type Notifier interface {
	Notify(ctx context.Context, recipientIDs []string, m Message)
}

// NotificationJob is the queued form of a Notify call.
type NotificationJob struct {
	Recipients []string `json:"recipients"`
	Message    Message  `json:"message"`
}

// DecodeNotificationJob parses a queued job body.
func DecodeNotificationJob(body []byte) (NotificationJob, error) {
	var job NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("decode notification job: %w", err)
	}
	if len(job.Recipients) == 0 || job.Message.Type == "" {
		return job, fmt.Errorf("decode notification job: %w", ErrValidation)
	}
	return job, nil
}

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands notifications to the worker through a queue. When the
// publish fails it falls back to Fallback, if set.
type QueueNotifier struct {
	Publisher JSONPublisher
	Fallback  Notifier
	Logger    *logrus.Logger
	// Now stamps OccurredAt on messages that arrive without one.
	Now func() time.Time
}

func NewQueueNotifier(p JSONPublisher, fallback Notifier, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Publisher: p, Fallback: fallback, Logger: logger, Now: time.Now}
}

func (q *QueueNotifier) Notify(ctx context.Context, recipientIDs []string, m Message) {
	if len(recipientIDs) == 0 {
		return
	}
	if m.OccurredAt.IsZero() && q.Now != nil {
		m.OccurredAt = q.Now().UTC()
	}
	err := q.Publisher.PublishJSON(ctx, NotificationJob{Recipients: recipientIDs, Message: m})
	if err == nil {
		return
	}
	if q.Logger != nil {
		q.Logger.WithError(err).WithField("type", m.Type).Warn("publish notification job failed")
	}
	if q.Fallback != nil {
		q.Fallback.Notify(ctx, recipientIDs, m)
	}
}

var (
	_ Notifier = (*NotificationService)(nil)
	_ Notifier = (*QueueNotifier)(nil)
)
