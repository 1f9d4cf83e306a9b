package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role of a user profile
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Profile is the public profile of an authenticated user
type Profile struct {
	ID        uuid.UUID
	FullName  *string
	Email     *string
	Phone     *string
	Role      Role
	CreatedAt time.Time
}

// IsAdmin reports whether the profile has staff rights
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
