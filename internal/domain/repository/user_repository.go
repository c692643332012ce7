package repository

import (
	"context"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. Returns ErrConflict when
	// the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}
