package dto

import (
	"time"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
)

// TokenResponse contains an issued bearer token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"` //nolint:gosec // returned on sign in
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MapTokenToResponse converts a domain token to an API response.
func MapTokenToResponse(token *authDomain.Token) TokenResponse {
	return TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	}
}
