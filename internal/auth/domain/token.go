// Package domain defines the authenticated principal and the bearer tokens
// that carry it between requests.
package domain

import (
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// TokenType is the authorization scheme of issued tokens.
const TokenType = "Bearer"

// Principal is the caller identified by a valid bearer token.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     userDomain.Role
}

// IsAdmin reports whether the principal has the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p.Role == userDomain.RoleAdmin
}

// Scope returns the card access scope of the principal.
func (p *Principal) Scope() cardDomain.CallerScope {
	if p.IsAdmin() {
		return cardDomain.AdminScope(p.UserID)
	}
	return cardDomain.OwnerScope(p.UserID)
}

// Token is a signed access token returned on sign in.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// SignInInput holds the credentials presented on sign in.
type SignInInput struct {
	Username string
	Password string
}
