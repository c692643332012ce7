package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
	"github.com/oksasatya/volunteer-hub/internal/infrastructure/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "hub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *sqlite.Store, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "x", Name: email, Role: role, Active: true}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func seedEvent(t *testing.T, s *sqlite.Store, creatorID string) *entity.Event {
	t.Helper()
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Millisecond)
	e := &entity.Event{
		Title:     "Beach cleanup",
		Location:  "Da Nang",
		StartTime: start,
		EndTime:   start.Add(4 * time.Hour),
		Status:    entity.EventPending,
		CreatorID: creatorID,
	}
	if err := s.Events().Create(context.Background(), e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := openStore(t)
	seedUser(t, s, "a@example.com", entity.RoleVolunteer)

	err := s.Users().Create(context.Background(), &entity.User{Email: "a@example.com", Password: "x", Name: "A", Role: entity.RoleVolunteer})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestEvents_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := seedUser(t, s, "m@example.com", entity.RoleEventManager)
	e := seedEvent(t, s, m.ID)

	if err := s.Events().TransitionStatus(ctx, e.ID, entity.EventPending, entity.EventApproved, time.Now()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	err := s.Events().TransitionStatus(ctx, e.ID, entity.EventPending, entity.EventRejected, time.Now())
	if !errors.Is(err, repository.ErrStaleState) {
		t.Fatalf("second transition err = %v, want ErrStaleState", err)
	}
	err = s.Events().TransitionStatus(ctx, "missing", entity.EventPending, entity.EventApproved, time.Now())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing event err = %v, want ErrNotFound", err)
	}

	got, err := s.Events().GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != entity.EventApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if !got.StartTime.Equal(e.StartTime) {
		t.Fatalf("start time = %s, want %s", got.StartTime, e.StartTime)
	}
}

func TestRegistrations_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := seedUser(t, s, "m@example.com", entity.RoleEventManager)
	v := seedUser(t, s, "v@example.com", entity.RoleVolunteer)
	e := seedEvent(t, s, m.ID)

	const workers = 16
	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Registrations().Create(ctx, &entity.Registration{UserID: v.ID, EventID: e.ID, Status: entity.RegistrationPending})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, repository.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || conflicts.Load() != workers-1 {
		t.Fatalf("ok=%d conflicts=%d, want 1/%d", ok.Load(), conflicts.Load(), workers-1)
	}
	regs, err := s.Registrations().ListByEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(regs) != 1 || regs[0].UserEmail != "v@example.com" {
		t.Fatalf("registrations = %+v", regs)
	}
}

func TestRegistrations_DeleteInStatus(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := seedUser(t, s, "m@example.com", entity.RoleEventManager)
	v := seedUser(t, s, "v@example.com", entity.RoleVolunteer)
	e := seedEvent(t, s, m.ID)
	regs := s.Registrations()

	if err := regs.Create(ctx, &entity.Registration{UserID: v.ID, EventID: e.ID, Status: entity.RegistrationPending}); err != nil {
		t.Fatal(err)
	}
	if err := regs.TransitionStatus(ctx, e.ID, v.ID, entity.RegistrationPending, entity.RegistrationRejected, time.Now()); err != nil {
		t.Fatal(err)
	}
	err := regs.DeleteInStatus(ctx, e.ID, v.ID, entity.RegistrationPending, entity.RegistrationApproved)
	if !errors.Is(err, repository.ErrStaleState) {
		t.Fatalf("delete rejected err = %v, want ErrStaleState", err)
	}
	err = regs.DeleteInStatus(ctx, e.ID, "nobody", entity.RegistrationPending)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("delete missing err = %v, want ErrNotFound", err)
	}

	ids, err := regs.UserIDsByStatus(ctx, e.ID, entity.RegistrationRejected)
	if err != nil || len(ids) != 1 || ids[0] != v.ID {
		t.Fatalf("UserIDsByStatus = %v, %v", ids, err)
	}
}

func TestNotifications_ScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	n := s.Notifications()
	base := time.Now().UTC()

	mine := &entity.Notification{RecipientID: "u1", Type: entity.NotifPostLiked, Content: "a", CreatedAt: base}
	newer := &entity.Notification{RecipientID: "u1", Type: entity.NotifPostLiked, Content: "b", CreatedAt: base.Add(time.Minute)}
	theirs := &entity.Notification{RecipientID: "u2", Type: entity.NotifPostLiked, Content: "c", CreatedAt: base}
	for _, x := range []*entity.Notification{mine, newer, theirs} {
		if err := n.Create(ctx, x); err != nil {
			t.Fatal(err)
		}
	}

	list, err := n.ListByRecipient(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("list not newest-first: %+v", list)
	}

	if got, _ := n.MarkRead(ctx, "u1", []string{theirs.ID}); got != 0 {
		t.Fatalf("marked %d foreign notifications", got)
	}
	if got, _ := n.MarkRead(ctx, "u1", []string{mine.ID}); got != 1 {
		t.Fatalf("marked %d, want 1", got)
	}
	if c, _ := n.CountUnread(ctx, "u1"); c != 1 {
		t.Fatalf("unread = %d, want 1", c)
	}
	if got, _ := n.Delete(ctx, "u2", []string{mine.ID, newer.ID}); got != 0 {
		t.Fatalf("deleted %d foreign notifications", got)
	}
	if got, _ := n.MarkAllRead(ctx, "u1"); got != 1 {
		t.Fatalf("mark all = %d, want 1", got)
	}
}

func TestNotifications_GetAndListByType(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	n := s.Notifications()
	base := time.Now().UTC()

	var likes []*entity.Notification
	for i := range 3 {
		x := &entity.Notification{RecipientID: "u1", Type: entity.NotifPostLiked, Content: "like", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := n.Create(ctx, x); err != nil {
			t.Fatal(err)
		}
		likes = append(likes, x)
	}
	other := &entity.Notification{RecipientID: "u1", Type: entity.NotifEventDecided, Content: "approved", CreatedAt: base}
	if err := n.Create(ctx, other); err != nil {
		t.Fatal(err)
	}

	got, err := n.Get(ctx, "u1", likes[1].ID)
	if err != nil || got.ID != likes[1].ID || got.Type != entity.NotifPostLiked {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := n.Get(ctx, "u2", likes[1].ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("foreign get err = %v", err)
	}

	list, err := n.ListByType(ctx, "u1", entity.NotifPostLiked)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ID != likes[2].ID || list[2].ID != likes[0].ID {
		t.Fatalf("list by type = %+v", list)
	}
}

func TestPosts_Likes(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := seedUser(t, s, "m@example.com", entity.RoleEventManager)
	v := seedUser(t, s, "v@example.com", entity.RoleVolunteer)
	e := seedEvent(t, s, m.ID)

	p := &entity.Post{EventID: e.ID, AuthorID: m.ID, Content: "Bring gloves"}
	if err := s.Posts().Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Posts().AddLike(ctx, p.ID, v.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Posts().AddLike(ctx, p.ID, v.ID); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second like err = %v, want ErrConflict", err)
	}
	got, err := s.Posts().GetByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LikeCount != 1 || got.AuthorName != "m@example.com" {
		t.Fatalf("post = %+v", got)
	}
	if err := s.Posts().RemoveLike(ctx, p.ID, v.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Posts().RemoveLike(ctx, p.ID, v.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("remove missing like err = %v", err)
	}
}
