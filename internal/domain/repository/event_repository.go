package repository

import (
	"context"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

// EventFilter narrows List. Zero values mean "any".
type EventFilter struct {
	Status    entity.EventStatus
	CreatorID string
}

type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	List(ctx context.Context, f EventFilter) ([]*entity.Event, error)
	// Update persists the descriptive fields of e. Status is never written here.
	Update(ctx context.Context, e *entity.Event) error
	// TransitionStatus moves the event from one status to another in a single
	// conditional write. ErrStaleState when the persisted status is not from.
	TransitionStatus(ctx context.Context, id string, from, to entity.EventStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}
