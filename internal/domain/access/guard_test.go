package access_test

import (
	"testing"
	"time"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
)

var (
	start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)
)

func principal(id string, role entity.Role) *access.Principal {
	return &access.Principal{UserID: id, Role: role, Active: true}
}

func event(status entity.EventStatus) *entity.Event {
	return &entity.Event{ID: "e1", CreatorID: "mgr", Status: status, StartTime: start, EndTime: end}
}

func registration(userID string, status entity.RegistrationStatus) *entity.Registration {
	return &entity.Registration{UserID: userID, EventID: "e1", Status: status}
}

func TestAuthorize(t *testing.T) {
	admin := principal("adm", entity.RoleAdmin)
	mgr := principal("mgr", entity.RoleEventManager)
	otherMgr := principal("mgr2", entity.RoleEventManager)
	vol := principal("vol", entity.RoleVolunteer)

	tests := []struct {
		name   string
		p      *access.Principal
		action access.Action
		want   access.Code
	}{
		{"manager creates event", mgr, access.CreateEvent{}, access.CodeAllowed},
		{"volunteer cannot create event", vol, access.CreateEvent{}, access.CodeRole},
		{"admin cannot create event", admin, access.CreateEvent{}, access.CodeRole},

		{"admin approves pending", admin, access.DecideEvent{Event: event(entity.EventPending)}, access.CodeAllowed},
		{"admin decides approved event", admin, access.DecideEvent{Event: event(entity.EventApproved)}, access.CodeState},
		{"admin decides rejected event", admin, access.DecideEvent{Event: event(entity.EventRejected)}, access.CodeState},
		{"manager cannot decide", mgr, access.DecideEvent{Event: event(entity.EventPending)}, access.CodeRole},

		{"creator edits", mgr, access.ModifyEvent{Event: event(entity.EventApproved)}, access.CodeAllowed},
		{"other manager edits", otherMgr, access.ModifyEvent{Event: event(entity.EventPending)}, access.CodeNotOwner},
		{"admin edits", admin, access.ModifyEvent{Event: event(entity.EventPending)}, access.CodeRole},

		{"volunteer views approved", vol, access.ViewEvent{Event: event(entity.EventApproved)}, access.CodeAllowed},
		{"volunteer views pending", vol, access.ViewEvent{Event: event(entity.EventPending)}, access.CodeNotOwner},
		{"creator views pending", mgr, access.ViewEvent{Event: event(entity.EventPending)}, access.CodeAllowed},
		{"admin views rejected", admin, access.ViewEvent{Event: event(entity.EventRejected)}, access.CodeAllowed},

		{"admin lists registrations", admin, access.ListEventRegistrations{Event: event(entity.EventApproved)}, access.CodeAllowed},
		{"other manager lists registrations", otherMgr, access.ListEventRegistrations{Event: event(entity.EventApproved)}, access.CodeNotOwner},

		{"admin lists pending", admin, access.ListPendingEvents{}, access.CodeAllowed},
		{"manager lists pending", mgr, access.ListPendingEvents{}, access.CodeRole},
		{"volunteer lists users", vol, access.ListUsers{}, access.CodeRole},

		{"volunteer registers", vol, access.RegisterForEvent{Event: event(entity.EventApproved)}, access.CodeAllowed},
		{"volunteer registers twice", vol, access.RegisterForEvent{Event: event(entity.EventApproved), Existing: registration("vol", entity.RegistrationRejected)}, access.CodeDuplicate},
		{"volunteer registers pending event", vol, access.RegisterForEvent{Event: event(entity.EventPending)}, access.CodeNotApproved},
		{"manager registers pending event", mgr, access.RegisterForEvent{Event: event(entity.EventPending)}, access.CodeNotApproved},
		{"admin registers rejected event", admin, access.RegisterForEvent{Event: event(entity.EventRejected)}, access.CodeNotApproved},
		{"manager registers approved event", mgr, access.RegisterForEvent{Event: event(entity.EventApproved)}, access.CodeRole},

		{"cancel before start", vol, access.CancelRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationApproved), Now: start.Add(-time.Minute)}, access.CodeAllowed},
		{"cancel at start", vol, access.CancelRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending), Now: start}, access.CodeState},
		{"cancel rejected", vol, access.CancelRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationRejected), Now: start.Add(-time.Hour)}, access.CodeState},
		{"cancel someone else's", principal("vol2", entity.RoleVolunteer), access.CancelRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending), Now: start.Add(-time.Hour)}, access.CodeNotOwner},

		{"creator approves registration", mgr, access.DecideRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending)}, access.CodeAllowed},
		{"creator decides twice", mgr, access.DecideRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationApproved)}, access.CodeState},
		{"other manager decides", otherMgr, access.DecideRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending)}, access.CodeNotOwner},
		{"admin decides registration", admin, access.DecideRegistration{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending)}, access.CodeRole},

		{"attended after end", mgr, access.MarkAttended{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationApproved), Now: end}, access.CodeAllowed},
		{"attended before end", mgr, access.MarkAttended{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationApproved), Now: end.Add(-time.Second)}, access.CodeState},
		{"attended from pending", mgr, access.MarkAttended{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending), Now: end.Add(time.Hour)}, access.CodeState},
		{"attended twice", mgr, access.MarkAttended{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationAttended), Now: end.Add(time.Hour)}, access.CodeState},

		{"admin bans volunteer", admin, access.ToggleUserBan{Target: &entity.User{ID: "vol", Role: entity.RoleVolunteer}}, access.CodeAllowed},
		{"admin bans admin", admin, access.ToggleUserBan{Target: &entity.User{ID: "adm2", Role: entity.RoleAdmin}}, access.CodeRole},
		{"manager bans volunteer", mgr, access.ToggleUserBan{Target: &entity.User{ID: "vol", Role: entity.RoleVolunteer}}, access.CodeRole},

		{"creator joins discussion", mgr, access.JoinDiscussion{Event: event(entity.EventApproved)}, access.CodeAllowed},
		{"accepted volunteer joins", vol, access.JoinDiscussion{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationAttended)}, access.CodeAllowed},
		{"pending volunteer joins", vol, access.JoinDiscussion{Event: event(entity.EventApproved), Registration: registration("vol", entity.RegistrationPending)}, access.CodeNotOwner},
		{"discussion on pending event", mgr, access.JoinDiscussion{Event: event(entity.EventPending)}, access.CodeState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := access.Authorize(tt.p, tt.action)
			if d.Code != tt.want {
				t.Fatalf("Authorize(%s) code = %q (%s), want %q", tt.action.Name(), d.Code, d.Reason, tt.want)
			}
			if d.Allowed != (tt.want == access.CodeAllowed) {
				t.Errorf("Allowed = %v, want %v", d.Allowed, tt.want == access.CodeAllowed)
			}
			if !d.Allowed && d.Reason == "" {
				t.Error("deny without reason")
			}
		})
	}
}

func TestAuthorize_InactiveDeniedEverything(t *testing.T) {
	actions := []access.Action{
		access.CreateEvent{},
		access.DecideEvent{Event: event(entity.EventPending)},
		access.ModifyEvent{Event: event(entity.EventPending)},
		access.RegisterForEvent{Event: event(entity.EventApproved)},
		access.ToggleUserBan{Target: &entity.User{Role: entity.RoleVolunteer}},
		access.ListUsers{},
	}
	for _, role := range []entity.Role{entity.RoleVolunteer, entity.RoleEventManager, entity.RoleAdmin} {
		p := &access.Principal{UserID: "mgr", Role: role, Active: false}
		for _, a := range actions {
			d := access.Authorize(p, a)
			if d.Allowed || d.Code != access.CodeInactive || d.Reason != access.ReasonInactive {
				t.Errorf("%s/%s: got %+v, want inactive deny", role, a.Name(), d)
			}
		}
	}
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	d := access.Authorize(nil, access.CreateEvent{})
	if d.Allowed || d.Code != access.CodeUnauthenticated {
		t.Fatalf("got %+v, want unauthenticated", d)
	}
	d = access.Authorize(&access.Principal{Role: entity.RoleAdmin, Active: true}, access.ListUsers{})
	if d.Code != access.CodeUnauthenticated {
		t.Fatalf("empty user id: got %+v, want unauthenticated", d)
	}
}
