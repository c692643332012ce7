package entity

import "time"

// EventStatus is the persisted moderation status of an event.
type EventStatus string

const (
	EventPending  EventStatus = "PENDING"
	EventApproved EventStatus = "APPROVED"
	EventRejected EventStatus = "REJECTED"
)

// Event is a community-service event proposed by an event manager.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	ImageURL    string
	StartTime   time.Time
	EndTime     time.Time
	Status      EventStatus
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Phase is the temporal classification of an event. It is derived from the
// clock and never persisted.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseOngoing  Phase = "ongoing"
	PhasePast     Phase = "past"
)

// PhaseAt classifies the event relative to now: ongoing within
// [StartTime, EndTime), past at or after EndTime, otherwise upcoming.
func (e *Event) PhaseAt(now time.Time) Phase {
	switch {
	case !now.Before(e.EndTime):
		return PhasePast
	case !now.Before(e.StartTime):
		return PhaseOngoing
	default:
		return PhaseUpcoming
	}
}

// Started reports whether now is at or after the start time.
func (e *Event) Started(now time.Time) bool { return !now.Before(e.StartTime) }

// Ended reports whether now is at or after the end time.
func (e *Event) Ended(now time.Time) bool { return !now.Before(e.EndTime) }
