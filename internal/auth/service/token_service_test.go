package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardvault/internal/auth/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

func newTestTokenService(t *testing.T, now time.Time) *jwtTokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	s := svc.(*jwtTokenService)
	s.now = func() time.Time { return now }
	return s
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptyTokenSecret)
}

func TestTokenService_IssueAndParse(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := newTestTokenService(t, now)
	user := &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: "john",
		Role:     userDomain.RoleAdmin,
	}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, now.Add(time.Hour), token.ExpiresAt)
	assert.NotEmpty(t, token.AccessToken)

	principal, err := svc.Parse(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, "john", principal.Username)
	assert.True(t, principal.IsAdmin())
}

func TestTokenService_ParseRejects(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := newTestTokenService(t, now)
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Username: "john", Role: userDomain.RoleUser}

	t.Run("Expired", func(t *testing.T) {
		token, err := svc.Issue(user)
		require.NoError(t, err)

		later := newTestTokenService(t, now.Add(2*time.Hour))
		_, err = later.Parse(token.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := svc.Issue(user)
		require.NoError(t, err)

		other, err := NewTokenService("other-secret", time.Hour)
		require.NoError(t, err)
		_, err = other.Parse(token.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Parse("not.a.token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("UnsignedAlgorithm", func(t *testing.T) {
		claims := userClaims{
			Username: "john",
			Role:     "ADMIN",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Parse(unsigned)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		claims := userClaims{
			Username: "john",
			Role:     "ROOT",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}
