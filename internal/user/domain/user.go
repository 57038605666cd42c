// Package domain defines the user aggregate: card holders and administrators.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/errors"
)

// Role decides which operations a user may perform.
type Role string

const (
	// RoleUser holds cards and moves funds between them.
	RoleUser Role = "USER"
	// RoleAdmin manages every card and user.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status is the account state of a user.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

// User represents an account of the service.
type User struct {
	ID       uuid.UUID
	Username string
	Email    string
	// Password is the pwdhash encoded hash, never the plain password.
	Password  string `json:"-"`
	Role      Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username or email is already taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidRole indicates a role other than USER or ADMIN.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "role must be USER or ADMIN")

	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid username or password")

	// ErrUserBlocked indicates a blocked user tried to authenticate.
	ErrUserBlocked = errors.Wrap(errors.ErrLocked, "user is blocked")
)
