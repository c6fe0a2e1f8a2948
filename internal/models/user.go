package models

import (
	"time"

	"github.com/google/uuid"
)

// Advisor account roles. Admin unlocks catalog management; every account,
// admin included, runs consultations under its own email.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether a requested account role is one the engine
// issues
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is an advisor account. The email doubles as the agent identity
// stamped on every session record the advisor produces, which is why it is
// unique and never updated in place.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
