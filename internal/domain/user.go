package domain

import "time"

// UserRole identifies the access level of a dashboard account.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
)

// User is the domain model for dashboard accounts. Accounts are seeded at
// startup and mutated out-of-band; the application never deletes them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
