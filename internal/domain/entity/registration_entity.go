package entity

import "time"

// RegistrationStatus is the participation status of a volunteer for one event.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
	RegistrationAttended RegistrationStatus = "ATTENDED"
)

// Registration is keyed by (UserID, EventID); the store guarantees at most
// one row per pair.
type Registration struct {
	UserID       string
	EventID      string
	Status       RegistrationStatus
	RegisteredAt time.Time
	UpdatedAt    time.Time

	// UserName and UserEmail are filled by listing queries only.
	UserName  string
	UserEmail string
}

// Cancellable reports whether the registration is in a status the volunteer
// may withdraw from.
func (r *Registration) Cancellable() bool {
	return r.Status == RegistrationPending || r.Status == RegistrationApproved
}

// Participating reports whether the volunteer has been accepted into the event.
func (r *Registration) Participating() bool {
	return r.Status == RegistrationApproved || r.Status == RegistrationAttended
}
