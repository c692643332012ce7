// Package notification collapses bursts of same-target notifications into
// display groups. Grouping is a read-time view; nothing here touches storage.
package notification

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

// DefaultWindow is the recency threshold for joining an open group.
const DefaultWindow = 24 * time.Hour

// Group is one display unit. A notification that is not groupable becomes a
// group of one whose fields mirror it exactly.
type Group struct {
	// ID is the id of the representative, the most recent member.
	ID        string                  `json:"id"`
	Type      entity.NotificationType `json:"type"`
	TargetID  string                  `json:"target_id,omitempty"`
	Content   string                  `json:"content"`
	Link      string                  `json:"link,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
	MemberIDs []string                `json:"member_ids"`
	Actors    []string                `json:"actors,omitempty"`

	rep      *entity.Notification
	actorSet map[string]struct{}
}

// Size is the number of notifications folded into g.
func (g *Group) Size() int { return len(g.MemberIDs) }

// TargetOf returns the id of the content n refers to: its TargetID, or the
// post id embedded in its link ("/events/<e>/posts/<p>").
func TargetOf(n *entity.Notification) string {
	if n.TargetID != "" {
		return n.TargetID
	}
	link := n.Link
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	parts := strings.Split(strings.Trim(link, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "posts" && parts[i+1] != "" {
			return parts[i+1]
		}
	}
	return ""
}

// Groupable reports whether n is a reaction to some content by a named actor.
// Workflow notifications carry neither and are always shown on their own.
func Groupable(n *entity.Notification) bool {
	return n.ActorName != "" && TargetOf(n) != ""
}

// Collapse groups notifications of one recipient. Notifications sharing
// (type, target) are walked newest first; one joins the open group of its
// partition when that group's most recent member is at most window newer,
// otherwise it opens a new group. The result is ordered newest first.
// The input slice is not modified.
func Collapse(list []*entity.Notification, window time.Duration) []Group {
	if window <= 0 {
		window = DefaultWindow
	}
	sorted := make([]*entity.Notification, 0, len(list))
	for _, n := range list {
		if n != nil {
			sorted = append(sorted, n)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	out := make([]Group, 0, len(sorted))
	open := make(map[string]int)
	for _, n := range sorted {
		if !Groupable(n) {
			out = append(out, newGroup(n))
			continue
		}
		key := string(n.Type) + "\x00" + TargetOf(n)
		if idx, ok := open[key]; ok && out[idx].CreatedAt.Sub(n.CreatedAt) <= window {
			out[idx].add(n)
			continue
		}
		out = append(out, newGroup(n))
		open[key] = len(out) - 1
	}

	for i := range out {
		out[i].render()
	}
	return out
}

// Find returns the group that id belongs to. Any member id resolves, so a
// group stays addressable after a newer member replaces its representative.
func Find(groups []Group, id string) (Group, bool) {
	for _, g := range groups {
		if g.ID == id || slices.Contains(g.MemberIDs, id) {
			return g, true
		}
	}
	return Group{}, false
}

func newGroup(n *entity.Notification) Group {
	g := Group{
		ID:        n.ID,
		Type:      n.Type,
		TargetID:  TargetOf(n),
		Content:   n.Content,
		Link:      n.Link,
		IsRead:    true,
		CreatedAt: n.CreatedAt,
		rep:       n,
		actorSet:  make(map[string]struct{}),
	}
	g.add(n)
	return g
}

func (g *Group) add(n *entity.Notification) {
	g.MemberIDs = append(g.MemberIDs, n.ID)
	g.IsRead = g.IsRead && n.IsRead
	if n.ActorName == "" {
		return
	}
	key := n.ActorID
	if key == "" {
		key = n.ActorName
	}
	if _, seen := g.actorSet[key]; seen {
		return
	}
	g.actorSet[key] = struct{}{}
	g.Actors = append(g.Actors, n.ActorName)
}

func (g *Group) render() {
	others := len(g.Actors) - 1
	if others <= 0 || g.rep == nil {
		return
	}
	verb := strings.TrimSpace(strings.TrimPrefix(g.rep.Content, g.rep.ActorName))
	noun := "others"
	if others == 1 {
		noun = "other"
	}
	g.Content = g.rep.ActorName + " and " + strconv.Itoa(others) + " " + noun + " " + verb
}
