package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
)

// RegistrationService owns the per-(volunteer, event) participation workflow:
// PENDING -> APPROVED | REJECTED, APPROVED -> ATTENDED. Cancellation removes
// the row while it is PENDING or APPROVED and the event has not started.
type RegistrationService struct {
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Users         repository.UserRepository
	Notifier      Notifier
	Logger        *logrus.Logger
	Now           func() time.Time
}

func NewRegistrationService(events repository.EventRepository, regs repository.RegistrationRepository, users repository.UserRepository, notifier Notifier, logger *logrus.Logger) *RegistrationService {
	return &RegistrationService{
		Events:        events,
		Registrations: regs,
		Users:         users,
		Notifier:      notifier,
		Logger:        logger,
		Now:           time.Now,
	}
}

func (s *RegistrationService) now() time.Time { return s.Now().UTC() }

// Register files a PENDING registration for p. The store's (user, event) key
// decides concurrent attempts; the losers get ErrAlreadyRegistered.
func (s *RegistrationService) Register(ctx context.Context, p *access.Principal, eventID string) (*entity.Registration, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookup(err, "event")
	}
	var existing *entity.Registration
	if p != nil && p.UserID != "" {
		existing, err = s.Registrations.Get(ctx, eventID, p.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if err := denied(access.Authorize(p, access.RegisterForEvent{Event: e, Existing: existing})); err != nil {
		return nil, err
	}

	reg := &entity.Registration{
		UserID:       p.UserID,
		EventID:      eventID,
		Status:       entity.RegistrationPending,
		RegisteredAt: s.now(),
	}
	if err := s.Registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: already registered for this event", ErrAlreadyRegistered)
		}
		s.logError(err, "create registration failed", logrus.Fields{"event_id": eventID, "user_id": p.UserID})
		return nil, err
	}

	name := s.userName(ctx, p.UserID)
	content := fmt.Sprintf("A volunteer registered for %q", e.Title)
	if name != "" {
		content = fmt.Sprintf("%s registered for %q", name, e.Title)
	}
	s.notify(ctx, []string{e.CreatorID}, Message{
		Type:      entity.NotifNewRegistration,
		Content:   content,
		Link:      eventLink(e.ID),
		ActorID:   p.UserID,
		ActorName: name,
	})
	return reg, nil
}

// Cancel withdraws p's registration. The row is deleted.
func (s *RegistrationService) Cancel(ctx context.Context, p *access.Principal, eventID string) error {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return lookup(err, "event")
	}
	if p == nil || p.UserID == "" {
		return denied(access.Authorize(p, access.CancelRegistration{Event: e}))
	}
	reg, err := s.Registrations.Get(ctx, eventID, p.UserID)
	if err != nil {
		return lookup(err, "registration")
	}
	if err := denied(access.Authorize(p, access.CancelRegistration{Event: e, Registration: reg, Now: s.now()})); err != nil {
		return err
	}
	err = s.Registrations.DeleteInStatus(ctx, eventID, p.UserID, entity.RegistrationPending, entity.RegistrationApproved)
	if errors.Is(err, repository.ErrStaleState) {
		return fmt.Errorf("%w: registration can no longer be cancelled", ErrInvalidState)
	}
	return lookup(err, "registration")
}

func (s *RegistrationService) Approve(ctx context.Context, p *access.Principal, eventID, userID string) (*entity.Registration, error) {
	return s.decide(ctx, p, eventID, userID, entity.RegistrationApproved)
}

func (s *RegistrationService) Reject(ctx context.Context, p *access.Principal, eventID, userID string) (*entity.Registration, error) {
	return s.decide(ctx, p, eventID, userID, entity.RegistrationRejected)
}

func (s *RegistrationService) decide(ctx context.Context, p *access.Principal, eventID, userID string, to entity.RegistrationStatus) (*entity.Registration, error) {
	e, reg, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := denied(access.Authorize(p, access.DecideRegistration{Event: e, Registration: reg})); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, reg, entity.RegistrationPending, to, "registration has already been decided"); err != nil {
		return nil, err
	}

	word := "approved"
	if to == entity.RegistrationRejected {
		word = "rejected"
	}
	s.notify(ctx, []string{userID}, Message{
		Type:    entity.NotifRegistrationDecided,
		Content: fmt.Sprintf("Your registration for %q was %s", e.Title, word),
		Link:    eventLink(e.ID),
		ActorID: p.UserID,
	})
	return reg, nil
}

// MarkAttended confirms an APPROVED volunteer took part, once the event ended.
func (s *RegistrationService) MarkAttended(ctx context.Context, p *access.Principal, eventID, userID string) (*entity.Registration, error) {
	e, reg, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := denied(access.Authorize(p, access.MarkAttended{Event: e, Registration: reg, Now: s.now()})); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, reg, entity.RegistrationApproved, entity.RegistrationAttended, "registration is no longer approved"); err != nil {
		return nil, err
	}
	s.notify(ctx, []string{userID}, Message{
		Type:    entity.NotifAttendanceConfirmed,
		Content: fmt.Sprintf("Your attendance at %q was confirmed", e.Title),
		Link:    eventLink(e.ID),
		ActorID: p.UserID,
	})
	return reg, nil
}

// ListForEvent returns the event's registrations to its creator or an admin.
func (s *RegistrationService) ListForEvent(ctx context.Context, p *access.Principal, eventID string) ([]*entity.Registration, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookup(err, "event")
	}
	if err := denied(access.Authorize(p, access.ListEventRegistrations{Event: e})); err != nil {
		return nil, err
	}
	return s.Registrations.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) ListMine(ctx context.Context, p *access.Principal) ([]*entity.Registration, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	}
	return s.Registrations.ListByUser(ctx, p.UserID)
}

func (s *RegistrationService) load(ctx context.Context, eventID, userID string) (*entity.Event, *entity.Registration, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, lookup(err, "event")
	}
	reg, err := s.Registrations.Get(ctx, eventID, userID)
	if err != nil {
		return nil, nil, lookup(err, "registration")
	}
	return e, reg, nil
}

// transition writes to only while the persisted status is still from.
func (s *RegistrationService) transition(ctx context.Context, reg *entity.Registration, from, to entity.RegistrationStatus, staleReason string) error {
	now := s.now()
	err := s.Registrations.TransitionStatus(ctx, reg.EventID, reg.UserID, from, to, now)
	switch {
	case err == nil:
		reg.Status = to
		reg.UpdatedAt = now
		return nil
	case errors.Is(err, repository.ErrStaleState):
		return fmt.Errorf("%w: %s", ErrInvalidState, staleReason)
	default:
		return lookup(err, "registration")
	}
}

func (s *RegistrationService) userName(ctx context.Context, id string) string {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("lookup actor name failed")
		}
		return ""
	}
	return u.Name
}

func (s *RegistrationService) notify(ctx context.Context, to []string, m Message) {
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, to, m)
	}
}

func (s *RegistrationService) logError(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Error(msg)
	}
}
