package application_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

func TestEventService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   application.EventInput
		want error
	}{
		{"missing title", application.EventInput{Location: "x", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)}, application.ErrValidation},
		{"missing location", application.EventInput{Title: "x", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)}, application.ErrValidation},
		{"end before start", application.EventInput{Title: "x", Location: "y", StartTime: eventStart, EndTime: eventStart.Add(-time.Hour)}, application.ErrValidation},
		{"equal times", application.EventInput{Title: "x", Location: "y", StartTime: eventStart, EndTime: eventStart}, application.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.events.Create(ctx, as(f.manager), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	_, err := f.events.Create(ctx, as(f.volunteer), application.EventInput{Title: "x", Location: "y", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)})
	if !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("volunteer create err = %v, want ErrForbidden", err)
	}

	e, err := f.events.Create(ctx, as(f.manager), application.EventInput{Title: " Tree planting ", Location: "Hue", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Status != entity.EventPending || e.Title != "Tree planting" || e.CreatorID != f.manager.ID {
		t.Fatalf("event = %+v", e)
	}
}

func TestEventService_DecideOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.approvedEvent(t)

	for _, decide := range []func() (*entity.Event, error){
		func() (*entity.Event, error) { return f.events.Approve(ctx, as(f.admin), e.ID) },
		func() (*entity.Event, error) { return f.events.Reject(ctx, as(f.admin), e.ID) },
	} {
		if _, err := decide(); !errors.Is(err, application.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	}
	got, err := f.store.Events().GetByID(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entity.EventApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}

	if _, err := f.events.Approve(ctx, as(f.manager), e.ID); !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("manager approve err = %v, want ErrForbidden", err)
	}
	if _, err := f.events.Approve(ctx, as(f.admin), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("missing event err = %v, want ErrNotFound", err)
	}

	inbox := f.inbox(t, f.manager)
	if len(inbox) != 1 || inbox[0].Type != entity.NotifEventDecided || inbox[0].Content != `Your event "Beach cleanup" was approved` {
		t.Fatalf("creator inbox = %+v", inbox)
	}
}

func TestEventService_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.events.Create(ctx, as(f.manager), application.EventInput{Title: "x", Location: "y", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 10
	var (
		wg      sync.WaitGroup
		wins    atomic.Int32
		invalid atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = f.events.Approve(ctx, as(f.admin), e.ID)
			} else {
				_, err = f.events.Reject(ctx, as(f.admin), e.ID)
			}
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, application.ErrInvalidState):
				invalid.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 || invalid.Load() != workers-1 {
		t.Fatalf("wins=%d invalid=%d", wins.Load(), invalid.Load())
	}
	if n := len(f.inbox(t, f.manager)); n != 1 {
		t.Fatalf("creator got %d decision notifications, want 1", n)
	}
}

func TestEventService_EditKeepsApprovedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.approvedEvent(t)

	title := "Beach cleanup (moved)"
	got, err := f.events.Update(ctx, as(f.manager), e.ID, application.EventPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != entity.EventApproved || got.Title != title {
		t.Fatalf("event = %+v", got)
	}

	other := f.user(t, "other@example.com", "Olga", entity.RoleEventManager)
	if _, err := f.events.Update(ctx, as(other), e.ID, application.EventPatch{Title: &title}); !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("non-owner update err = %v, want ErrForbidden", err)
	}
	bad := eventStart.Add(-time.Hour)
	if _, err := f.events.Update(ctx, as(f.manager), e.ID, application.EventPatch{EndTime: &bad}); !errors.Is(err, application.ErrValidation) {
		t.Fatalf("bad window err = %v, want ErrValidation", err)
	}
}

func TestEventService_VisibilityAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending, err := f.events.Create(ctx, as(f.manager), application.EventInput{Title: "Food drive", Location: "Hanoi", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.events.Get(ctx, as(f.volunteer), pending.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("volunteer sees pending event: %v", err)
	}
	for _, u := range []*entity.User{f.manager, f.admin} {
		if _, err := f.events.Get(ctx, as(u), pending.ID); err != nil {
			t.Fatalf("%s cannot see pending event: %v", u.Role, err)
		}
	}
	queue, err := f.events.ListPending(ctx, as(f.admin))
	if err != nil || len(queue) != 1 {
		t.Fatalf("pending queue = %v, %v", queue, err)
	}
	if _, err := f.events.ListPending(ctx, as(f.manager)); !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("manager pending queue err = %v", err)
	}

	if err := f.events.Delete(ctx, as(f.manager), pending.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.events.Get(ctx, as(f.manager), pending.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("deleted event err = %v", err)
	}
}

func TestEventService_SearchWithoutIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.approvedEvent(t)
	if _, err := f.events.Create(ctx, as(f.manager), application.EventInput{Title: "Beach party", Location: "Da Nang", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	hits, err := f.events.Search(ctx, "beach", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Beach cleanup" {
		t.Fatalf("hits = %+v, want only the approved event", hits)
	}
	if _, err := f.events.Search(ctx, "  ", 10); !errors.Is(err, application.ErrValidation) {
		t.Fatalf("empty query err = %v", err)
	}
}
