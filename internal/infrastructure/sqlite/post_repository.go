package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

type PostRepository struct {
	db *sql.DB
}

const postSelect = `
	SELECT p.id, p.event_id, p.author_id, u.name, p.content, p.created_at,
		(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)
	FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row interface{ Scan(...any) error }) (*entity.Post, error) {
	var (
		p       entity.Post
		created int64
	)
	if err := row.Scan(&p.ID, &p.EventID, &p.AuthorID, &p.AuthorName, &p.Content, &created, &p.LikeCount); err != nil {
		return nil, err
	}
	p.CreatedAt = fromMillis(created)
	return &p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO posts (id, event_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.AuthorID, p.Content, toMillis(p.CreatedAt))
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	return p, notFound(err)
}

func (r *PostRepository) ListByEvent(ctx context.Context, eventID string) ([]*entity.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` WHERE p.event_id = ? ORDER BY p.created_at DESC, p.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) AddComment(ctx context.Context, c *entity.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Content, toMillis(c.CreatedAt))
	return err
}

func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.name, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Comment
	for rows.Next() {
		var (
			c       entity.Comment
			created int64
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = fromMillis(created)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID, toMillis(time.Now()))
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
