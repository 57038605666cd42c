// Package usecase implements sign up, sign in and bearer token authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
)

// UserRepository resolves the users behind credentials and tokens.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// UserCreator registers new users.
type UserCreator interface {
	Create(ctx context.Context, input userUseCase.CreateUserInput) (*userDomain.User, error)
}

// SignUpInput contains the self-registration data. Self-registered users
// always receive the USER role.
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// AuthUseCase defines authentication operations.
type AuthUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*userDomain.User, error)
	// SignIn verifies the credentials and issues a bearer token. Unknown
	// usernames and wrong passwords are indistinguishable.
	SignIn(ctx context.Context, input authDomain.SignInInput) (*authDomain.Token, error)
	// Authenticate verifies accessToken and resolves the principal against the
	// current user record, so deleted or blocked users lose access at once.
	Authenticate(ctx context.Context, accessToken string) (*authDomain.Principal, error)
}
