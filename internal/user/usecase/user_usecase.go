package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/database"
	"github.com/allisson/cardvault/internal/user/domain"
	appValidation "github.com/allisson/cardvault/internal/validation"
)

type userUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	passwordHasher PasswordHasher
	now            func() time.Time
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	passwordHasher PasswordHasher,
) UserUseCase {
	return &userUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		now:            time.Now,
	}
}

func validateCreateUserInput(input CreateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
			appValidation.Username,
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.UserPassword,
			appValidation.NoWhitespace,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create validates the input, hashes the password and stores an ACTIVE user.
func (u *userUseCase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := validateCreateUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := u.passwordHasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  hashedPassword,
		Role:      input.Role,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *userUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return u.userRepo.List(ctx, offset, limit)
}

// Block prevents the user from signing in. Tokens already issued stop
// authenticating on their next use.
func (u *userUseCase) Block(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.setStatus(ctx, id, domain.StatusBlocked)
}

func (u *userUseCase) Unblock(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.setStatus(ctx, id, domain.StatusActive)
}

func (u *userUseCase) setStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.User, error) {
	var user *domain.User
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = u.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user.Status == status {
			return nil
		}
		user.Status = status
		user.UpdatedAt = u.now().UTC()
		return u.userRepo.UpdateStatus(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.userRepo.Delete(ctx, id)
}
