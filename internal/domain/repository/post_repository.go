package repository

import (
	"context"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	ListByEvent(ctx context.Context, eventID string) ([]*entity.Post, error)
	AddComment(ctx context.Context, c *entity.Comment) error
	ListComments(ctx context.Context, postID string) ([]*entity.Comment, error)
	// AddLike returns ErrConflict when userID already liked postID.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
}
