// Package service provides password hashing and bearer token signing.
package service

import (
	"github.com/allisson/cardvault/internal/auth/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// PasswordService hashes user passwords and verifies them on sign in.
type PasswordService interface {
	// HashPassword returns the Argon2id PHC encoded hash of plainPassword.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword reports whether plainPassword matches hashedPassword.
	ComparePassword(plainPassword, hashedPassword string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	// Issue signs a token carrying the user id, username and role.
	Issue(user *userDomain.User) (*domain.Token, error)

	// Parse verifies signature and expiry and returns the principal carried by
	// the token. Any failure yields domain.ErrInvalidToken.
	Parse(accessToken string) (*domain.Principal, error)
}
