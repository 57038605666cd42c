package usecase

import (
	"context"
	"errors"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	authService "github.com/allisson/cardvault/internal/auth/service"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
)

type authUseCase struct {
	users           UserCreator
	userRepo        UserRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(
	users UserCreator,
	userRepo UserRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) AuthUseCase {
	return &authUseCase{
		users:           users,
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

func (a *authUseCase) SignUp(ctx context.Context, input SignUpInput) (*userDomain.User, error) {
	return a.users.Create(ctx, userUseCase.CreateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     userDomain.RoleUser,
	})
}

func (a *authUseCase) SignIn(ctx context.Context, input authDomain.SignInInput) (*authDomain.Token, error) {
	user, err := a.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, userDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.passwordService.ComparePassword(input.Password, user.Password) {
		return nil, userDomain.ErrInvalidCredentials
	}

	// Checked after the password so a blocked account does not reveal itself.
	if user.Status == userDomain.StatusBlocked {
		return nil, userDomain.ErrUserBlocked
	}

	return a.tokenService.Issue(user)
}

func (a *authUseCase) Authenticate(ctx context.Context, accessToken string) (*authDomain.Principal, error) {
	principal, err := a.tokenService.Parse(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}
	if user.Status == userDomain.StatusBlocked {
		return nil, userDomain.ErrUserBlocked
	}

	return &authDomain.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
