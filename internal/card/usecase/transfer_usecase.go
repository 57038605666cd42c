package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardService "github.com/allisson/cardvault/internal/card/service"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// transferUseCase implements the TransferUseCase interface.
type transferUseCase struct {
	txManager    database.TxManager
	cardRepo     CardRepository
	transferRepo TransferRepository
	locks        LockManager
	now          func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager database.TxManager,
	cardRepo CardRepository,
	transferRepo TransferRepository,
	locks LockManager,
) TransferUseCase {
	return &transferUseCase{
		txManager:    txManager,
		cardRepo:     cardRepo,
		transferRepo: transferRepo,
		locks:        locks,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Transfer moves input.Amount between two cards of input.OwnerID.
//
// Both cards are locked in ascending id order, first in process and then with
// row locks inside one transaction, and released when the transaction ends.
// Each phase waits at most the lock timeout before failing with ErrCardBusy.
// Checks run in this order: source exists, destination exists, cards differ,
// source active, destination active, source balance covers the amount. On any
// failure neither balance changes. On success both balances and the transfer
// log entry commit together.
func (t *transferUseCase) Transfer(
	ctx context.Context,
	input TransferInput,
) (*cardDomain.TransferResult, error) {
	unlock, err := t.locks.Lock(ctx, input.FromCardID, input.ToCardID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		result *cardDomain.TransferResult
		opErr  error
	)
	err = withRowLocks(ctx, t.txManager, t.cardRepo, t.locks.Timeout(), func(txCtx context.Context) error {
		cards, err := t.loadOwnedForUpdate(txCtx, input.OwnerID, input.FromCardID, input.ToCardID)
		if err != nil {
			return err
		}

		from, ok := cards[input.FromCardID]
		if !ok {
			return &cardDomain.CardNotFoundError{CardID: input.FromCardID}
		}
		to, ok := cards[input.ToCardID]
		if !ok {
			return &cardDomain.CardNotFoundError{CardID: input.ToCardID}
		}
		if input.FromCardID == input.ToCardID {
			return cardDomain.ErrInvalidTransfer
		}

		now := t.now()
		for _, card := range []*cardDomain.Card{from, to} {
			if card.ApplyExpiry(now) {
				if err := t.cardRepo.UpdateStatus(txCtx, card); err != nil {
					return err
				}
			}
		}

		if opErr = checkTransfer(from, to, input.Amount); opErr != nil {
			// Commit only the expiry updates above.
			return nil
		}

		from.Balance = from.Balance.Sub(input.Amount)
		from.UpdatedAt = now
		to.Balance = to.Balance.Add(input.Amount)
		to.UpdatedAt = now

		for _, id := range cardService.SortedIDs(from.ID, to.ID) {
			if err := t.cardRepo.UpdateBalance(txCtx, cards[id]); err != nil {
				return err
			}
		}

		transfer := &cardDomain.Transfer{
			ID:         uuid.Must(uuid.NewV7()),
			OwnerID:    input.OwnerID,
			FromCardID: from.ID,
			ToCardID:   to.ID,
			Amount:     input.Amount,
			CreatedAt:  now,
		}
		if err := t.transferRepo.Create(txCtx, transfer); err != nil {
			return err
		}

		result = &cardDomain.TransferResult{
			TransactionID: transfer.ID,
			Message:       cardDomain.TransferSucceededMessage,
		}
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

// List returns the transfer log of ownerID, newest first.
func (t *transferUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	return t.transferRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// loadOwnedForUpdate row-locks ids in ascending order and returns the cards that
// exist and belong to ownerID. Cards of other owners are treated as missing.
func (t *transferUseCase) loadOwnedForUpdate(
	ctx context.Context,
	ownerID uuid.UUID,
	ids ...uuid.UUID,
) (map[uuid.UUID]*cardDomain.Card, error) {
	cards := make(map[uuid.UUID]*cardDomain.Card, len(ids))
	for _, id := range cardService.SortedIDs(ids...) {
		card, err := t.cardRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if apperrors.Is(err, cardDomain.ErrCardNotFound) {
				continue
			}
			return nil, err
		}
		if card.OwnerID != ownerID {
			continue
		}
		cards[id] = card
	}
	return cards, nil
}

func checkTransfer(from, to *cardDomain.Card, amount decimal.Decimal) error {
	if err := from.EnsureTransferable(cardDomain.SideSource); err != nil {
		return err
	}
	if err := to.EnsureTransferable(cardDomain.SideDestination); err != nil {
		return err
	}
	if from.Balance.LessThan(amount) {
		return &cardDomain.InsufficientBalanceError{
			Available: from.Balance,
			Requested: amount,
		}
	}
	return nil
}
