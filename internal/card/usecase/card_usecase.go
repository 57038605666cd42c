package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardService "github.com/allisson/cardvault/internal/card/service"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// cardUseCase implements the CardUseCase interface.
type cardUseCase struct {
	txManager database.TxManager
	cardRepo  CardRepository
	userRepo  UserRepository
	cipher    cryptoService.CardCipher
	locks     LockManager
	now       func() time.Time
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(
	txManager database.TxManager,
	cardRepo CardRepository,
	userRepo UserRepository,
	cipher cryptoService.CardCipher,
	locks LockManager,
) CardUseCase {
	return &cardUseCase{
		txManager: txManager,
		cardRepo:  cardRepo,
		userRepo:  userRepo,
		cipher:    cipher,
		locks:     locks,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create masks and encrypts the card number and stores the card with a status
// derived from its expiry date.
func (c *cardUseCase) Create(ctx context.Context, input CreateCardInput) (*cardDomain.Card, error) {
	if !cardDomain.ValidBalance(input.Balance) {
		return nil, cardDomain.ErrInvalidBalance
	}
	if _, err := c.userRepo.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	masked := cardService.Mask(input.Number)

	exists, err := c.cardRepo.ExistsByMaskedNumber(ctx, masked)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &cardDomain.DuplicateCardError{MaskedNumber: masked}
	}

	ciphertext, err := c.cipher.Encrypt(input.Number)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt card number")
	}

	now := c.now()
	expiry := cardDomain.NormalizeExpiryDate(input.ExpiryDate)
	card := &cardDomain.Card{
		ID:               uuid.Must(uuid.NewV7()),
		OwnerID:          input.OwnerID,
		NumberCiphertext: ciphertext,
		MaskedNumber:     masked,
		Owner:            strings.TrimSpace(input.Owner),
		ExpiryDate:       expiry,
		Status:           cardDomain.InitialStatus(expiry, now),
		Balance:          input.Balance,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := c.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// Touch applies the expiry check to any card.
func (c *cardUseCase) Touch(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error) {
	return c.mutate(ctx, cardID, nil, nil)
}

// GetForOwner applies the expiry check to a card of ownerID.
func (c *cardUseCase) GetForOwner(ctx context.Context, cardID, ownerID uuid.UUID) (*cardDomain.Card, error) {
	scope := cardDomain.OwnerScope(ownerID)
	return c.mutate(ctx, cardID, &scope, nil)
}

// List returns cards of every owner.
func (c *cardUseCase) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	return c.cardRepo.List(ctx, offset, limit)
}

// ListForOwner returns the cards of ownerID, optionally filtered by a
// case-insensitive match on the holder name or masked number.
func (c *cardUseCase) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	return c.cardRepo.ListByOwner(ctx, ownerID, strings.TrimSpace(search), offset, limit)
}

// ListActiveForOwner returns the cards of ownerID that can take part in a transfer today.
func (c *cardUseCase) ListActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*cardDomain.Card, error) {
	return c.cardRepo.ListActiveByOwner(ctx, ownerID, cardDomain.NormalizeExpiryDate(c.now()))
}

// SetStatus activates or blocks a card.
func (c *cardUseCase) SetStatus(
	ctx context.Context,
	cardID uuid.UUID,
	target cardDomain.Status,
	scope cardDomain.CallerScope,
) (*cardDomain.Card, error) {
	if target != cardDomain.StatusActive && target != cardDomain.StatusBlocked {
		return nil, cardDomain.ErrInvalidTargetStatus
	}
	if target == cardDomain.StatusActive && !scope.Admin {
		return nil, cardDomain.ErrActivationForbidden
	}

	return c.mutate(ctx, cardID, &scope, func(card *cardDomain.Card, now time.Time) error {
		return card.Transition(target, now)
	})
}

// Delete removes a card at any status.
func (c *cardUseCase) Delete(ctx context.Context, cardID uuid.UUID) error {
	unlock, err := c.locks.Lock(ctx, cardID)
	if err != nil {
		return err
	}
	defer unlock()

	return withRowLocks(ctx, c.txManager, c.cardRepo, c.locks.Timeout(), func(txCtx context.Context) error {
		return c.cardRepo.Delete(txCtx, cardID)
	})
}

// RevealNumber decrypts the stored card number. A decryption failure is
// returned as is: it means the ciphertext or the secret is wrong.
func (c *cardUseCase) RevealNumber(ctx context.Context, cardID, ownerID uuid.UUID) (string, error) {
	card, err := c.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return "", err
	}
	if !cardDomain.OwnerScope(ownerID).CanAccess(card) {
		return "", &cardDomain.CardNotFoundError{CardID: cardID}
	}

	number, err := c.cipher.Decrypt(card.NumberCiphertext)
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to decrypt card %s", cardID)
	}

	return number, nil
}

// ExpireOverdue marks every card past its expiry date as EXPIRED. Cards locked
// by a running mutation are skipped; that mutation applies the expiry itself.
func (c *cardUseCase) ExpireOverdue(ctx context.Context) (int64, error) {
	var count int64
	err := withRowLocks(ctx, c.txManager, c.cardRepo, c.locks.Timeout(), func(txCtx context.Context) error {
		now := c.now()
		expired, err := c.cardRepo.ExpireOverdue(txCtx, cardDomain.NormalizeExpiryDate(now), now)
		if err != nil {
			return err
		}
		count = expired
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// mutate runs fn against a locked, freshly loaded card. The expiry check always
// runs first and its status change is persisted even when fn fails, so a
// rejected transition still leaves an overdue card EXPIRED.
func (c *cardUseCase) mutate(
	ctx context.Context,
	cardID uuid.UUID,
	scope *cardDomain.CallerScope,
	fn func(card *cardDomain.Card, now time.Time) error,
) (*cardDomain.Card, error) {
	unlock, err := c.locks.Lock(ctx, cardID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		result *cardDomain.Card
		opErr  error
	)
	err = withRowLocks(ctx, c.txManager, c.cardRepo, c.locks.Timeout(), func(txCtx context.Context) error {
		card, err := c.cardRepo.GetByIDForUpdate(txCtx, cardID)
		if err != nil {
			return err
		}
		if scope != nil && !scope.CanAccess(card) {
			return &cardDomain.CardNotFoundError{CardID: cardID}
		}

		now := c.now()
		before := card.Status
		card.ApplyExpiry(now)
		if fn != nil {
			opErr = fn(card, now)
		}

		if card.Status != before {
			if err := c.cardRepo.UpdateStatus(txCtx, card); err != nil {
				return err
			}
		}

		result = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}

	return result, nil
}
