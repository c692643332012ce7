package repository

import (
	"context"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

type RegistrationRepository interface {
	// Create inserts r atomically. ErrConflict when a registration for the
	// same (user, event) pair already exists.
	Create(ctx context.Context, r *entity.Registration) error
	Get(ctx context.Context, eventID, userID string) (*entity.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*entity.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Registration, error)
	// UserIDsByStatus returns the user ids registered for eventID in any of statuses.
	UserIDsByStatus(ctx context.Context, eventID string, statuses ...entity.RegistrationStatus) ([]string, error)
	TransitionStatus(ctx context.Context, eventID, userID string, from, to entity.RegistrationStatus, at time.Time) error
	// DeleteInStatus removes the registration only while its status is one of
	// statuses. ErrStaleState when it exists in another status.
	DeleteInStatus(ctx context.Context, eventID, userID string, statuses ...entity.RegistrationStatus) error
}
