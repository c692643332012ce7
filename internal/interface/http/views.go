package handlers

import (
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type eventView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Phase       string    `json:"phase"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEventView(e *entity.Event, now time.Time) eventView {
	return eventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Status:      string(e.Status),
		Phase:       string(e.PhaseAt(now)),
		CreatorID:   e.CreatorID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEventViews(events []*entity.Event, now time.Time) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toEventView(e, now))
	}
	return out
}

type registrationView struct {
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserName     string    `json:"user_name,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
}

func toRegistrationView(r *entity.Registration) registrationView {
	return registrationView{
		UserID:       r.UserID,
		EventID:      r.EventID,
		Status:       string(r.Status),
		RegisteredAt: r.RegisteredAt,
		UpdatedAt:    r.UpdatedAt,
		UserName:     r.UserName,
		UserEmail:    r.UserEmail,
	}
}

func toRegistrationViews(regs []*entity.Registration) []registrationView {
	out := make([]registrationView, 0, len(regs))
	for _, r := range regs {
		out = append(out, toRegistrationView(r))
	}
	return out
}

type notificationView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Link      string    `json:"link,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	TargetID  string    `json:"target_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationViews(ns []*entity.Notification) []notificationView {
	out := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationView{
			ID:        n.ID,
			Type:      string(n.Type),
			Content:   n.Content,
			Link:      n.Link,
			ActorID:   n.ActorID,
			ActorName: n.ActorName,
			TargetID:  n.TargetID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

type postView struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	LikeCount  int       `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPostView(p *entity.Post) postView {
	return postView{
		ID:         p.ID,
		EventID:    p.EventID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Content:    p.Content,
		LikeCount:  p.LikeCount,
		CreatedAt:  p.CreatedAt,
	}
}

type commentView struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCommentView(c *entity.Comment) commentView {
	return commentView{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}
