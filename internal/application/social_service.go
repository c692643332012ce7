package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

const maxPostLength = 5000

// SocialService runs the discussion attached to each approved event and
// raises the chatty notifications that get grouped on read.
type SocialService struct {
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Posts         repository.PostRepository
	Users         repository.UserRepository
	Notifier      Notifier
	Logger        *logrus.Logger
}

func NewSocialService(events repository.EventRepository, regs repository.RegistrationRepository, posts repository.PostRepository, users repository.UserRepository, notifier Notifier, logger *logrus.Logger) *SocialService {
	return &SocialService{
		Events:        events,
		Registrations: regs,
		Posts:         posts,
		Users:         users,
		Notifier:      notifier,
		Logger:        logger,
	}
}

func (s *SocialService) ListPosts(ctx context.Context, p *access.Principal, eventID string) ([]*entity.Post, error) {
	if _, err := s.join(ctx, p, eventID); err != nil {
		return nil, err
	}
	return s.Posts.ListByEvent(ctx, eventID)
}

// CreatePost publishes a post and tells every other participant about it.
func (s *SocialService) CreatePost(ctx context.Context, p *access.Principal, eventID, content string) (*entity.Post, error) {
	e, err := s.join(ctx, p, eventID)
	if err != nil {
		return nil, err
	}
	content, err = cleanContent(content)
	if err != nil {
		return nil, err
	}
	author := s.userName(ctx, p.UserID)
	post := &entity.Post{EventID: eventID, AuthorID: p.UserID, AuthorName: author, Content: content}
	if err := s.Posts.Create(ctx, post); err != nil {
		return nil, err
	}

	recipients, err := s.Registrations.UserIDsByStatus(ctx, eventID, entity.RegistrationApproved, entity.RegistrationAttended)
	if err != nil {
		s.warn(err, "list post recipients failed", logrus.Fields{"event_id": eventID})
	}
	recipients = append(recipients, e.CreatorID)
	s.notify(ctx, without(recipients, p.UserID), Message{
		Type:      entity.NotifNewPost,
		Content:   fmt.Sprintf("%s posted in %q", displayName(author), e.Title),
		Link:      postLink(eventID, post.ID),
		ActorID:   p.UserID,
		ActorName: author,
		TargetID:  eventID,
	})
	return post, nil
}

func (s *SocialService) ListComments(ctx context.Context, p *access.Principal, postID string) ([]*entity.Comment, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookup(err, "post")
	}
	if _, err := s.join(ctx, p, post.EventID); err != nil {
		return nil, err
	}
	return s.Posts.ListComments(ctx, postID)
}

func (s *SocialService) AddComment(ctx context.Context, p *access.Principal, postID, content string) (*entity.Comment, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookup(err, "post")
	}
	if _, err := s.join(ctx, p, post.EventID); err != nil {
		return nil, err
	}
	content, err = cleanContent(content)
	if err != nil {
		return nil, err
	}
	author := s.userName(ctx, p.UserID)
	c := &entity.Comment{PostID: postID, AuthorID: p.UserID, AuthorName: author, Content: content}
	if err := s.Posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, without([]string{post.AuthorID}, p.UserID), Message{
		Type:      entity.NotifPostCommented,
		Content:   displayName(author) + " commented on your post",
		Link:      postLink(post.EventID, post.ID),
		ActorID:   p.UserID,
		ActorName: author,
		TargetID:  post.ID,
	})
	return c, nil
}

func (s *SocialService) Like(ctx context.Context, p *access.Principal, postID string) (*entity.Post, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookup(err, "post")
	}
	if _, err := s.join(ctx, p, post.EventID); err != nil {
		return nil, err
	}
	if err := s.Posts.AddLike(ctx, postID, p.UserID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: post already liked", ErrAlreadyLiked)
		}
		return nil, err
	}
	post.LikeCount++

	actor := s.userName(ctx, p.UserID)
	s.notify(ctx, without([]string{post.AuthorID}, p.UserID), Message{
		Type:      entity.NotifPostLiked,
		Content:   displayName(actor) + " liked your post",
		Link:      postLink(post.EventID, post.ID),
		ActorID:   p.UserID,
		ActorName: actor,
		TargetID:  post.ID,
	})
	return post, nil
}

func (s *SocialService) Unlike(ctx context.Context, p *access.Principal, postID string) (*entity.Post, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookup(err, "post")
	}
	if _, err := s.join(ctx, p, post.EventID); err != nil {
		return nil, err
	}
	if err := s.Posts.RemoveLike(ctx, postID, p.UserID); err != nil {
		return nil, lookup(err, "like")
	}
	if post.LikeCount > 0 {
		post.LikeCount--
	}
	return post, nil
}

// join checks that p may take part in the discussion of eventID.
func (s *SocialService) join(ctx context.Context, p *access.Principal, eventID string) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookup(err, "event")
	}
	var reg *entity.Registration
	if p != nil && p.UserID != "" {
		reg, err = s.Registrations.Get(ctx, eventID, p.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if err := denied(access.Authorize(p, access.JoinDiscussion{Event: e, Registration: reg})); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SocialService) userName(ctx context.Context, id string) string {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		s.warn(err, "lookup actor name failed", logrus.Fields{"user_id": id})
		return ""
	}
	return u.Name
}

func (s *SocialService) notify(ctx context.Context, to []string, m Message) {
	if s.Notifier != nil && len(to) > 0 {
		s.Notifier.Notify(ctx, to, m)
	}
}

func (s *SocialService) warn(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Warn(msg)
	}
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", validationf("content is required")
	}
	if len(content) > maxPostLength {
		return "", validationf("content must be at most %d characters", maxPostLength)
	}
	return content, nil
}

func displayName(name string) string {
	if name == "" {
		return "Someone"
	}
	return name
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
