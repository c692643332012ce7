package entity

// Role is the single authorization role a user holds.
type Role string

const (
	RoleVolunteer    Role = "VOLUNTEER"
	RoleEventManager Role = "EVENT_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleEventManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
