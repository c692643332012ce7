package entity

import "time"

// Post is a discussion entry attached to an approved event.
type Post struct {
	ID         string
	EventID    string
	AuthorID   string
	AuthorName string
	Content    string
	LikeCount  int
	CreatedAt  time.Time
}

type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
