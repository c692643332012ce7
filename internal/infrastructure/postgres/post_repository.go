package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

const postSelect = `
	SELECT p.id::text, p.event_id::text, p.author_id::text, u.name, p.content, p.created_at,
		(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)::int
	FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.EventID, &p.AuthorID, &p.AuthorName, &p.Content, &p.CreatedAt, &p.LikeCount); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO posts (event_id, author_id, content) VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`, p.EventID, p.AuthorID, p.Content).Scan(&p.ID, &p.CreatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PostRepository) ListByEvent(ctx context.Context, eventID string) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, postSelect+` WHERE p.event_id = $1 ORDER BY p.created_at DESC, p.id`, eventID)
	if err != nil {
		return nil, notFound(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Post, error) { return scanPost(row) })
}

func (r *PostRepository) AddComment(ctx context.Context, c *entity.Comment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`, c.PostID, c.AuthorID, c.Content).Scan(&c.ID, &c.CreatedAt)
}

func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.post_id::text, c.author_id::text, u.name, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`, postID)
	if err != nil {
		return nil, notFound(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Comment, error) {
		c := &entity.Comment{}
		err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt)
		return c, err
	})
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return notFound(err)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
