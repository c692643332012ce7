package application_test

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/infrastructure/sqlite"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	store  *sqlite.Store
	clock  *clock
	notes  *application.NotificationService
	events *application.EventService
	regs   *application.RegistrationService
	social *application.SocialService
	users  *application.UserService

	admin, manager, volunteer *entity.User
}

var eventStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "hub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := quietLogger()
	clk := &clock{t: eventStart.Add(-7 * 24 * time.Hour)}

	notes := application.NewNotificationService(store.Notifications(), log, 24*time.Hour, 200)
	notes.Now = clk.Now
	events := application.NewEventService(store.Events(), store.Users(), notes, nil, nil, log)
	events.Now = clk.Now
	regs := application.NewRegistrationService(store.Events(), store.Registrations(), store.Users(), notes, log)
	regs.Now = clk.Now
	social := application.NewSocialService(store.Events(), store.Registrations(), store.Posts(), store.Users(), notes, log)
	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	users := application.NewUserService(store.Users(), jwt, nil, log)

	f := &fixture{store: store, clock: clk, notes: notes, events: events, regs: regs, social: social, users: users}
	f.admin = f.user(t, "admin@example.com", "Ada", entity.RoleAdmin)
	f.manager = f.user(t, "manager@example.com", "Max", entity.RoleEventManager)
	f.volunteer = f.user(t, "vol@example.com", "Vi", entity.RoleVolunteer)
	return f
}

func (f *fixture) user(t *testing.T, email, name string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "unused", Name: name, Role: role, Active: true}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func as(u *entity.User) *access.Principal { return application.PrincipalOf(u) }

// approvedEvent creates an event running 09:00-17:00 on 2025-03-01 and has
// the admin approve it.
func (f *fixture) approvedEvent(t *testing.T) *entity.Event {
	t.Helper()
	ctx := context.Background()
	e, err := f.events.Create(ctx, as(f.manager), application.EventInput{
		Title:     "Beach cleanup",
		Location:  "Da Nang",
		StartTime: eventStart,
		EndTime:   eventStart.Add(8 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := f.events.Approve(ctx, as(f.admin), e.ID); err != nil {
		t.Fatalf("approve event: %v", err)
	}
	e.Status = entity.EventApproved
	return e
}

func (f *fixture) inbox(t *testing.T, u *entity.User) []*entity.Notification {
	t.Helper()
	list, err := f.notes.List(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return list
}
