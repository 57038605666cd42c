package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidToken indicates a bearer token that is malformed, badly signed or expired.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid or expired token")

	// ErrAdminRequired indicates a non-admin principal called an admin operation.
	ErrAdminRequired = errors.Wrap(errors.ErrForbidden, "admin role required")
)
