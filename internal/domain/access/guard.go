// Package access holds the one authorization policy of the service.
//
// Authorization rules:
//   - A missing principal, or one whose account is inactive, is denied every
//     action before its role is looked at.
//   - Create event: EVENT_MANAGER.
//   - Approve/reject event: ADMIN, event must be PENDING.
//   - Edit/delete event, upload its image: EVENT_MANAGER who created it.
//   - View event: anyone when APPROVED, otherwise its creator or an ADMIN.
//   - List event registrations: the event's creator or an ADMIN.
//   - List pending events, list users: ADMIN.
//   - Register: event must be APPROVED (checked before the role), VOLUNTEER,
//     no registration for the pair yet.
//   - Cancel registration: the VOLUNTEER who owns it, status PENDING or
//     APPROVED, event not started.
//   - Approve/reject registration: the event's creator, status PENDING.
//   - Mark attended: the event's creator, status APPROVED, event ended.
//   - Toggle ban: ADMIN, target is not an ADMIN.
//   - Join discussion: event APPROVED; its creator, or a VOLUNTEER whose
//     registration is APPROVED or ATTENDED.
//
// Conditions on persisted state or on the clock are reported with their own
// deny codes so callers can tell a bad transition from a bad caller.
package access

import (
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

// Principal is the authenticated actor attempting an action.
type Principal struct {
	UserID string
	Role   entity.Role
	Active bool
}

// Code classifies a decision.
type Code string

const (
	CodeAllowed         Code = "allowed"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInactive        Code = "inactive"
	CodeRole            Code = "role"
	CodeNotOwner        Code = "not_owner"
	CodeState           Code = "state"
	CodeNotApproved     Code = "event_not_approved"
	CodeDuplicate       Code = "duplicate"
)

// ReasonInactive is the reason given for every action of a banned user.
const ReasonInactive = "account is inactive"

// Decision is the outcome of Authorize. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Code    Code
	Reason  string
}

func allow() Decision { return Decision{Allowed: true, Code: CodeAllowed} }

func deny(code Code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// Action is a closed set of variants; only this package implements it.
type Action interface {
	Name() string
	sealed()
}

type CreateEvent struct{}

type DecideEvent struct{ Event *entity.Event }

// ModifyEvent covers edit, delete and image upload.
type ModifyEvent struct{ Event *entity.Event }

type ViewEvent struct{ Event *entity.Event }

type ListEventRegistrations struct{ Event *entity.Event }

type ListPendingEvents struct{}

type RegisterForEvent struct {
	Event *entity.Event
	// Existing is the registration already stored for the pair, if any.
	Existing *entity.Registration
}

type CancelRegistration struct {
	Event        *entity.Event
	Registration *entity.Registration
	Now          time.Time
}

type DecideRegistration struct {
	Event        *entity.Event
	Registration *entity.Registration
}

type MarkAttended struct {
	Event        *entity.Event
	Registration *entity.Registration
	Now          time.Time
}

type ToggleUserBan struct{ Target *entity.User }

type ListUsers struct{}

type JoinDiscussion struct {
	Event *entity.Event
	// Registration is the principal's registration for Event, nil if none.
	Registration *entity.Registration
}

func (CreateEvent) Name() string            { return "create_event" }
func (DecideEvent) Name() string            { return "decide_event" }
func (ModifyEvent) Name() string            { return "modify_event" }
func (ViewEvent) Name() string              { return "view_event" }
func (ListEventRegistrations) Name() string { return "list_event_registrations" }
func (ListPendingEvents) Name() string      { return "list_pending_events" }
func (RegisterForEvent) Name() string       { return "register_for_event" }
func (CancelRegistration) Name() string     { return "cancel_registration" }
func (DecideRegistration) Name() string     { return "decide_registration" }
func (MarkAttended) Name() string           { return "mark_attended" }
func (ToggleUserBan) Name() string          { return "toggle_user_ban" }
func (ListUsers) Name() string              { return "list_users" }
func (JoinDiscussion) Name() string         { return "join_discussion" }

func (CreateEvent) sealed()            {}
func (DecideEvent) sealed()            {}
func (ModifyEvent) sealed()            {}
func (ViewEvent) sealed()              {}
func (ListEventRegistrations) sealed() {}
func (ListPendingEvents) sealed()      {}
func (RegisterForEvent) sealed()       {}
func (CancelRegistration) sealed()     {}
func (DecideRegistration) sealed()     {}
func (MarkAttended) sealed()           {}
func (ToggleUserBan) sealed()          {}
func (ListUsers) sealed()              {}
func (JoinDiscussion) sealed()         {}

// Authorize evaluates action for p. It never panics; a nil principal is
// treated as unauthenticated.
func Authorize(p *Principal, action Action) Decision {
	if p == nil || p.UserID == "" {
		return deny(CodeUnauthenticated, "authentication required")
	}
	if !p.Active {
		return deny(CodeInactive, ReasonInactive)
	}

	switch a := action.(type) {
	case CreateEvent:
		return requireRole(p, entity.RoleEventManager)

	case DecideEvent:
		if d := requireRole(p, entity.RoleAdmin); !d.Allowed {
			return d
		}
		if a.Event.Status != entity.EventPending {
			return deny(CodeState, "event has already been "+statusWord(a.Event.Status))
		}
		return allow()

	case ModifyEvent:
		return requireCreator(p, a.Event)

	case ViewEvent:
		if a.Event.Status == entity.EventApproved || p.Role == entity.RoleAdmin || p.UserID == a.Event.CreatorID {
			return allow()
		}
		return deny(CodeNotOwner, "event is not published")

	case ListEventRegistrations:
		if p.Role == entity.RoleAdmin {
			return allow()
		}
		return requireCreator(p, a.Event)

	case ListPendingEvents, ListUsers:
		return requireRole(p, entity.RoleAdmin)

	case RegisterForEvent:
		if a.Event.Status != entity.EventApproved {
			return deny(CodeNotApproved, "event is not open for registration")
		}
		if d := requireRole(p, entity.RoleVolunteer); !d.Allowed {
			return d
		}
		if a.Existing != nil {
			return deny(CodeDuplicate, "already registered for this event")
		}
		return allow()

	case CancelRegistration:
		if d := requireRole(p, entity.RoleVolunteer); !d.Allowed {
			return d
		}
		if a.Registration == nil || a.Registration.UserID != p.UserID {
			return deny(CodeNotOwner, "registration belongs to another user")
		}
		if !a.Registration.Cancellable() {
			return deny(CodeState, "registration can no longer be cancelled")
		}
		if a.Event.Started(a.Now) {
			return deny(CodeState, "event has already started")
		}
		return allow()

	case DecideRegistration:
		if d := requireCreator(p, a.Event); !d.Allowed {
			return d
		}
		if a.Registration == nil || a.Registration.Status != entity.RegistrationPending {
			return deny(CodeState, "registration is not pending")
		}
		return allow()

	case MarkAttended:
		if d := requireCreator(p, a.Event); !d.Allowed {
			return d
		}
		if a.Registration == nil || a.Registration.Status != entity.RegistrationApproved {
			return deny(CodeState, "only approved registrations can be marked attended")
		}
		if !a.Event.Ended(a.Now) {
			return deny(CodeState, "event has not ended yet")
		}
		return allow()

	case ToggleUserBan:
		if d := requireRole(p, entity.RoleAdmin); !d.Allowed {
			return d
		}
		if a.Target.Role == entity.RoleAdmin {
			return deny(CodeRole, "administrators cannot be banned")
		}
		return allow()

	case JoinDiscussion:
		if a.Event.Status != entity.EventApproved {
			return deny(CodeState, "event is not published")
		}
		if p.Role == entity.RoleEventManager && p.UserID == a.Event.CreatorID {
			return allow()
		}
		if p.Role == entity.RoleVolunteer && a.Registration != nil && a.Registration.UserID == p.UserID && a.Registration.Participating() {
			return allow()
		}
		return deny(CodeNotOwner, "only the organizer and accepted volunteers can take part")
	}

	return deny(CodeRole, "action is not permitted")
}

func requireRole(p *Principal, role entity.Role) Decision {
	if p.Role != role {
		return deny(CodeRole, "requires role "+string(role))
	}
	return allow()
}

func requireCreator(p *Principal, e *entity.Event) Decision {
	if d := requireRole(p, entity.RoleEventManager); !d.Allowed {
		return d
	}
	if e.CreatorID != p.UserID {
		return deny(CodeNotOwner, "only the event creator can do this")
	}
	return allow()
}

func statusWord(s entity.EventStatus) string {
	switch s {
	case entity.EventApproved:
		return "approved"
	case entity.EventRejected:
		return "rejected"
	}
	return "decided"
}
