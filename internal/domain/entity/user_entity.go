package entity

import (
	"time"
)

// User is the aggregate root for accounts.
// Passwords are stored as bcrypt hashes in Password field.
// Users are never hard-deleted; Active is toggled by an admin to ban/unban.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
