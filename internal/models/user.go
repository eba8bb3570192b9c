package models

import "time"

// UserStatus is the lifecycle state an administrator assigns to an account.
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
	UserPending UserStatus = "pending"
)

// Valid reports whether s is one of the known lifecycle states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserBlocked, UserPending:
		return true
	}
	return false
}

// User is a homeowner or administrator profile (a row of the users table).
type User struct {
	ID        string     `json:"id"`
	AuthID    string     `json:"auth_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	IsAdmin   bool       `json:"is_admin"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
