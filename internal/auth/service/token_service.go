package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/auth/domain"
	apperrors "github.com/allisson/cardvault/internal/errors"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// ErrEmptyTokenSecret is returned when no signing secret is configured.
var ErrEmptyTokenSecret = errors.New("token signing secret is empty")

const tokenIssuer = "cardvault"

// userClaims is the JWT payload. The subject holds the user id.
type userClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// jwtTokenService implements TokenService with HS256 signed JWTs.
type jwtTokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with secret. Tokens expire
// after expiration.
func NewTokenService(secret string, expiration time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, ErrEmptyTokenSecret
	}
	return &jwtTokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

func (s *jwtTokenService) Issue(user *userDomain.User) (*domain.Token, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.expiration)

	claims := userClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ID:        uuid.Must(uuid.NewV7()).String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   domain.TokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *jwtTokenService) Parse(accessToken string) (*domain.Principal, error) {
	claims := &userClaims{}
	token, err := jwt.ParseWithClaims(
		accessToken,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	role := userDomain.Role(claims.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Principal{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
