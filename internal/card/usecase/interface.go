// Package usecase implements card custody and transfer business logic.
// Use cases coordinate the card cipher, the per-card lock manager and the
// repositories inside database transactions.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// CardRepository defines the interface for Card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *cardDomain.Card) error
	GetByID(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error)
	// GetByIDForUpdate loads the card and locks its row until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error)
	List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, search string, offset, limit int) ([]*cardDomain.Card, error)
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]*cardDomain.Card, error)
	ExistsByMaskedNumber(ctx context.Context, maskedNumber string) (bool, error)
	// UpdateStatus writes only status, version and updated_at.
	UpdateStatus(ctx context.Context, card *cardDomain.Card) error
	// UpdateBalance writes only balance, version and updated_at.
	UpdateBalance(ctx context.Context, card *cardDomain.Card) error
	// SetLockTimeout bounds row lock waits for the rest of the surrounding
	// transaction. A wait past d fails with cardDomain.ErrCardBusy.
	SetLockTimeout(ctx context.Context, d time.Duration) error
	// ExpireOverdue marks every non-expired card whose expiry date is before today
	// as EXPIRED and returns the number of cards changed. Rows locked by another
	// transaction are skipped and left to the next sweep or load.
	ExpireOverdue(ctx context.Context, today, now time.Time) (int64, error)
	Delete(ctx context.Context, cardID uuid.UUID) error
}

// TransferRepository defines the interface for the append-only transfer log.
type TransferRepository interface {
	Create(ctx context.Context, transfer *cardDomain.Transfer) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*cardDomain.Transfer, error)
}

// UserRepository resolves card owners.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// LockManager serializes mutations of the same card.
type LockManager interface {
	Lock(ctx context.Context, ids ...uuid.UUID) (func(), error)
	// Timeout bounds every lock wait, in process and on database rows.
	Timeout() time.Duration
}

// CreateCardInput contains the data needed to store a new card.
type CreateCardInput struct {
	Number     string
	Owner      string
	ExpiryDate time.Time
	Balance    decimal.Decimal
	OwnerID    uuid.UUID
}

// TransferInput describes a transfer between two cards of OwnerID.
// Amount must be positive with at most two fractional digits; request
// validation enforces this before the use case runs.
type TransferInput struct {
	FromCardID uuid.UUID
	ToCardID   uuid.UUID
	Amount     decimal.Decimal
	OwnerID    uuid.UUID
}

// CardUseCase defines the interface for card custody and lifecycle operations.
type CardUseCase interface {
	Create(ctx context.Context, input CreateCardInput) (*cardDomain.Card, error)
	// Touch applies the expiry check to the card, persists a resulting status
	// change and returns the current record.
	Touch(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error)
	// GetForOwner is Touch restricted to the cards of ownerID.
	GetForOwner(ctx context.Context, cardID, ownerID uuid.UUID) (*cardDomain.Card, error)
	List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, search string, offset, limit int) ([]*cardDomain.Card, error)
	ListActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*cardDomain.Card, error)
	// SetStatus activates or blocks a card. Owners may only block their own cards.
	SetStatus(
		ctx context.Context,
		cardID uuid.UUID,
		target cardDomain.Status,
		scope cardDomain.CallerScope,
	) (*cardDomain.Card, error)
	Delete(ctx context.Context, cardID uuid.UUID) error
	// RevealNumber decrypts the stored card number for its owner.
	RevealNumber(ctx context.Context, cardID, ownerID uuid.UUID) (string, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

// TransferUseCase defines the interface for moving funds between cards.
type TransferUseCase interface {
	Transfer(ctx context.Context, input TransferInput) (*cardDomain.TransferResult, error)
	List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*cardDomain.Transfer, error)
}
