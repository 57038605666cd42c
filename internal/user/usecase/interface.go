// Package usecase implements user account management: registration, lookup,
// blocking and removal of card holders and administrators.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/user/domain"
)

// UserRepository defines the interface for User persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	UpdateStatus(ctx context.Context, user *domain.User) error
	// Delete removes the user and, through the foreign keys, their cards and transfers.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher turns a plain password into its stored hash.
type PasswordHasher interface {
	HashPassword(plainPassword string) (string, error)
}

// CreateUserInput contains the data needed to register a user.
// An empty Role registers a regular card holder.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserUseCase defines the interface for user account operations.
type UserUseCase interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Block(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Unblock(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
