package notification_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/notification"
)

var t0 = time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

func like(id, actor string, at time.Time) *entity.Notification {
	return &entity.Notification{
		ID:          id,
		RecipientID: "author",
		Type:        entity.NotifPostLiked,
		Content:     actor + " liked your post",
		Link:        "/events/e1/posts/p1",
		ActorID:     "u-" + actor,
		ActorName:   actor,
		TargetID:    "p1",
		CreatedAt:   at,
	}
}

func TestCollapse_WindowSplitsGroups(t *testing.T) {
	list := []*entity.Notification{
		like("n1", "Ana", t0),
		like("n2", "Ben", t0.Add(time.Hour)),
		like("n3", "Cleo", t0.Add(30*time.Hour)),
	}

	groups := notification.Collapse(list, notification.DefaultWindow)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}
	if got := groups[0].MemberIDs; !reflect.DeepEqual(got, []string{"n3"}) {
		t.Errorf("newest group members = %v, want [n3]", got)
	}
	if got := groups[1].MemberIDs; !reflect.DeepEqual(got, []string{"n2", "n1"}) {
		t.Errorf("older group members = %v, want [n2 n1]", got)
	}
	if groups[1].ID != "n2" {
		t.Errorf("representative = %s, want n2", groups[1].ID)
	}
	if want := "Ben and 1 other liked your post"; groups[1].Content != want {
		t.Errorf("content = %q, want %q", groups[1].Content, want)
	}
	if want := "Cleo liked your post"; groups[0].Content != want {
		t.Errorf("single content = %q, want %q", groups[0].Content, want)
	}
}

func TestCollapse_ExactWindowBoundaryJoins(t *testing.T) {
	list := []*entity.Notification{
		like("n1", "Ana", t0),
		like("n2", "Ben", t0.Add(24*time.Hour)),
	}
	groups := notification.Collapse(list, 24*time.Hour)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
}

func TestCollapse_DistinctActorsCounted(t *testing.T) {
	list := []*entity.Notification{
		like("n1", "Ana", t0),
		like("n2", "Ana", t0.Add(time.Minute)),
		like("n3", "Ben", t0.Add(2*time.Minute)),
		like("n4", "Cleo", t0.Add(3*time.Minute)),
	}
	groups := notification.Collapse(list, notification.DefaultWindow)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Size() != 4 {
		t.Errorf("size = %d, want 4", g.Size())
	}
	if want := "Cleo and 2 others liked your post"; g.Content != want {
		t.Errorf("content = %q, want %q", g.Content, want)
	}
	if want := []string{"Cleo", "Ben", "Ana"}; !reflect.DeepEqual(g.Actors, want) {
		t.Errorf("actors = %v, want %v", g.Actors, want)
	}
}

func TestCollapse_PartitionsByTypeAndTarget(t *testing.T) {
	otherPost := like("n2", "Ben", t0.Add(time.Minute))
	otherPost.TargetID = "p2"
	otherPost.Link = "/events/e1/posts/p2"

	comment := like("n3", "Cleo", t0.Add(2*time.Minute))
	comment.Type = entity.NotifPostCommented
	comment.Content = "Cleo commented on your post"

	groups := notification.Collapse([]*entity.Notification{like("n1", "Ana", t0), otherPost, comment}, notification.DefaultWindow)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
}

func TestCollapse_WorkflowNotificationsNeverGrouped(t *testing.T) {
	list := []*entity.Notification{
		{ID: "a", Type: entity.NotifRegistrationDecided, Content: "Your registration was approved", Link: "/events/e1", CreatedAt: t0},
		{ID: "b", Type: entity.NotifRegistrationDecided, Content: "Your registration was approved", Link: "/events/e1", CreatedAt: t0.Add(time.Minute)},
		{ID: "c", Type: entity.NotifEventDecided, Content: "Your event was approved", Link: "/events/e1", CreatedAt: t0.Add(2 * time.Minute)},
	}
	groups := notification.Collapse(list, notification.DefaultWindow)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	for _, g := range groups {
		if g.Size() != 1 {
			t.Errorf("group %s has %d members", g.ID, g.Size())
		}
	}
	if groups[0].ID != "c" || groups[2].ID != "a" {
		t.Errorf("order = %s,%s,%s; want newest first", groups[0].ID, groups[1].ID, groups[2].ID)
	}
}

func TestCollapse_ReadOnlyWhenAllMembersRead(t *testing.T) {
	a := like("n1", "Ana", t0)
	b := like("n2", "Ben", t0.Add(time.Minute))
	a.IsRead = true

	groups := notification.Collapse([]*entity.Notification{a, b}, notification.DefaultWindow)
	if groups[0].IsRead {
		t.Fatal("group with an unread member reported read")
	}
	b.IsRead = true
	groups = notification.Collapse([]*entity.Notification{a, b}, notification.DefaultWindow)
	if !groups[0].IsRead {
		t.Fatal("group with all members read reported unread")
	}
}

func TestTargetOf_ParsesLink(t *testing.T) {
	n := &entity.Notification{Link: "/events/e9/posts/p42?focus=comments"}
	if got := notification.TargetOf(n); got != "p42" {
		t.Fatalf("TargetOf = %q, want p42", got)
	}
	if got := notification.TargetOf(&entity.Notification{Link: "/events/e9"}); got != "" {
		t.Fatalf("TargetOf(event link) = %q, want empty", got)
	}
}

func TestFind(t *testing.T) {
	groups := notification.Collapse([]*entity.Notification{like("n1", "Ana", t0), like("n2", "Ben", t0.Add(time.Minute))}, notification.DefaultWindow)
	g, ok := notification.Find(groups, "n2")
	if !ok || len(g.MemberIDs) != 2 {
		t.Fatalf("Find(n2) = %+v, %v", g, ok)
	}
	if g, ok := notification.Find(groups, "n1"); !ok || g.ID != "n2" {
		t.Fatalf("Find(n1) = %+v, %v", g, ok)
	}
	if _, ok := notification.Find(groups, "missing"); ok {
		t.Fatal("unknown id resolved to a group")
	}

	// A newer like takes over as representative; earlier ids still resolve.
	grown := notification.Collapse([]*entity.Notification{
		like("n1", "Ana", t0),
		like("n2", "Ben", t0.Add(time.Hour)),
		like("n3", "Cy", t0.Add(2*time.Hour)),
	}, notification.DefaultWindow)
	for _, id := range []string{"n1", "n2", "n3"} {
		g, ok := notification.Find(grown, id)
		if !ok || g.ID != "n3" || len(g.MemberIDs) != 3 {
			t.Fatalf("Find(%s) = %+v, %v", id, g, ok)
		}
	}
}
