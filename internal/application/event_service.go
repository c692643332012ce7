package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

// EventService owns the event publication lifecycle:
// PENDING -> APPROVED | REJECTED, both terminal.
type EventService struct {
	Events   repository.EventRepository
	Users    repository.UserRepository
	Notifier Notifier
	Index    EventIndex
	Media    MediaStore
	Logger   *logrus.Logger
	Now      func() time.Time
}

// EventInput carries the descriptive fields of a new event.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// EventPatch carries the fields to change; nil means keep.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, notifier Notifier, index EventIndex, media MediaStore, logger *logrus.Logger) *EventService {
	return &EventService{
		Events:   events,
		Users:    users,
		Notifier: notifier,
		Index:    index,
		Media:    media,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *EventService) now() time.Time { return s.Now().UTC() }

func validateEvent(e *entity.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	e.Location = strings.TrimSpace(e.Location)
	e.Description = strings.TrimSpace(e.Description)
	switch {
	case e.Title == "":
		return validationf("title is required")
	case e.Location == "":
		return validationf("location is required")
	case e.StartTime.IsZero() || e.EndTime.IsZero():
		return validationf("start and end time are required")
	case !e.StartTime.Before(e.EndTime):
		return validationf("start time must be before end time")
	}
	return nil
}

// Create stores a new PENDING event owned by p.
func (s *EventService) Create(ctx context.Context, p *access.Principal, in EventInput) (*entity.Event, error) {
	if err := denied(access.Authorize(p, access.CreateEvent{})); err != nil {
		return nil, err
	}
	e := &entity.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Status:      entity.EventPending,
		CreatorID:   p.UserID,
	}
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if err := s.Events.Create(ctx, e); err != nil {
		s.logError(err, "create event failed", logrus.Fields{"creator_id": p.UserID})
		return nil, err
	}
	return e, nil
}

func (s *EventService) Approve(ctx context.Context, p *access.Principal, id string) (*entity.Event, error) {
	return s.decide(ctx, p, id, entity.EventApproved)
}

func (s *EventService) Reject(ctx context.Context, p *access.Principal, id string) (*entity.Event, error) {
	return s.decide(ctx, p, id, entity.EventRejected)
}

// decide moves a PENDING event to to. The write is conditioned on the
// persisted status, so of two racing decisions exactly one wins.
func (s *EventService) decide(ctx context.Context, p *access.Principal, id string, to entity.EventStatus) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "event")
	}
	if err := denied(access.Authorize(p, access.DecideEvent{Event: e})); err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.Events.TransitionStatus(ctx, id, entity.EventPending, to, now); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("%w: event has already been decided", ErrInvalidState)
		}
		return nil, lookup(err, "event")
	}
	e.Status = to
	e.UpdatedAt = now

	if to == entity.EventApproved {
		s.index(ctx, e)
	}
	word := "approved"
	if to == entity.EventRejected {
		word = "rejected"
	}
	s.notify(ctx, []string{e.CreatorID}, Message{
		Type:    entity.NotifEventDecided,
		Content: fmt.Sprintf("Your event %q was %s", e.Title, word),
		Link:    eventLink(e.ID),
		ActorID: p.UserID,
	})
	return e, nil
}

// Update edits the descriptive fields. The moderation status is left as is,
// so an approved event stays approved after an edit.
func (s *EventService) Update(ctx context.Context, p *access.Principal, id string, patch EventPatch) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "event")
	}
	if err := denied(access.Authorize(p, access.ModifyEvent{Event: e})); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.StartTime != nil {
		e.StartTime = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		e.EndTime = patch.EndTime.UTC()
	}
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if err := s.Events.Update(ctx, e); err != nil {
		return nil, lookup(err, "event")
	}
	if e.Status == entity.EventApproved {
		s.index(ctx, e)
	}
	return e, nil
}

// Delete removes the event with its registrations and posts.
func (s *EventService) Delete(ctx context.Context, p *access.Principal, id string) error {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return lookup(err, "event")
	}
	if err := denied(access.Authorize(p, access.ModifyEvent{Event: e})); err != nil {
		return err
	}
	if err := s.Events.Delete(ctx, id); err != nil {
		return lookup(err, "event")
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.logWarn(err, "remove event from index failed", logrus.Fields{"event_id": id})
		}
	}
	return nil
}

func (s *EventService) Get(ctx context.Context, p *access.Principal, id string) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "event")
	}
	if d := access.Authorize(p, access.ViewEvent{Event: e}); !d.Allowed {
		// Unpublished events are invisible to everyone but their owner and admins.
		if d.Code == access.CodeNotOwner {
			return nil, notFoundf("event not found")
		}
		return nil, denied(d)
	}
	return e, nil
}

// ListApproved is the public catalog.
func (s *EventService) ListApproved(ctx context.Context) ([]*entity.Event, error) {
	return s.Events.List(ctx, repository.EventFilter{Status: entity.EventApproved})
}

// ListMine returns every event p created, in any status.
func (s *EventService) ListMine(ctx context.Context, p *access.Principal) ([]*entity.Event, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	}
	return s.Events.List(ctx, repository.EventFilter{CreatorID: p.UserID})
}

// ListPending is the moderation queue.
func (s *EventService) ListPending(ctx context.Context, p *access.Principal) ([]*entity.Event, error) {
	if err := denied(access.Authorize(p, access.ListPendingEvents{})); err != nil {
		return nil, err
	}
	return s.Events.List(ctx, repository.EventFilter{Status: entity.EventPending})
}

// UploadImage stores a cover image with the media host and records its URL.
func (s *EventService) UploadImage(ctx context.Context, p *access.Principal, id string, r io.Reader, filename, contentType string) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "event")
	}
	if err := denied(access.Authorize(p, access.ModifyEvent{Event: e})); err != nil {
		return nil, err
	}
	if s.Media == nil {
		return nil, fmt.Errorf("%w: media uploads are disabled", ErrUnavailable)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationf("only image uploads are accepted")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("events", e.ID, uuid.NewString()+ext))
	url, err := s.Media.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.logError(err, "upload event image failed", logrus.Fields{"event_id": e.ID})
		return nil, err
	}
	e.ImageURL = url
	if err := s.Events.Update(ctx, e); err != nil {
		return nil, lookup(err, "event")
	}
	if e.Status == entity.EventApproved {
		s.index(ctx, e)
	}
	return e, nil
}

// Search queries the catalog index, or filters approved events in the store
// when no index is configured.
func (s *EventService) Search(ctx context.Context, q string, size int) ([]*entity.Event, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationf("query is required")
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, size)
		if err != nil {
			s.logWarn(err, "event search failed", logrus.Fields{"q": q})
			return nil, err
		}
		out := make([]*entity.Event, 0, len(ids))
		for _, id := range ids {
			e, err := s.Events.GetByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if e.Status == entity.EventApproved {
				out = append(out, e)
			}
		}
		return out, nil
	}

	all, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]*entity.Event, 0, size)
	for _, e := range all {
		hay := strings.ToLower(e.Title + " " + e.Location + " " + e.Description)
		if strings.Contains(hay, needle) {
			out = append(out, e)
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}

func (s *EventService) index(ctx context.Context, e *entity.Event) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, e); err != nil {
		s.logWarn(err, "index event failed", logrus.Fields{"event_id": e.ID})
	}
}

func (s *EventService) notify(ctx context.Context, to []string, m Message) {
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, to, m)
	}
}

func (s *EventService) logError(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Error(msg)
	}
}

func (s *EventService) logWarn(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Warn(msg)
	}
}

func eventLink(id string) string { return "/events/" + id }

func postLink(eventID, postID string) string { return "/events/" + eventID + "/posts/" + postID }
