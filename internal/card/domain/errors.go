package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

// Error is a card error kind with a stable client-facing code. It unwraps to the
// generic kind from internal/errors that decides the HTTP status.
type Error struct {
	code    string
	message string
	kind    error
}

func newError(code, message string, kind error) *Error {
	return &Error{code: code, message: message, kind: kind}
}

func (e *Error) Error() string { return e.message }

// Code returns the stable error code.
func (e *Error) Code() string { return e.code }

func (e *Error) Unwrap() error { return e.kind }

// Card error kinds.
var (
	// ErrDuplicateCard indicates a card with the same masked number is already stored.
	ErrDuplicateCard = newError("duplicate_card", "card already exists", apperrors.ErrConflict)

	// ErrCardNotFound indicates the card does not exist or is not visible to the caller.
	ErrCardNotFound = newError("card_not_found", "card not found", apperrors.ErrNotFound)

	// ErrCardNotActive indicates a transfer participant is BLOCKED or EXPIRED.
	ErrCardNotActive = newError("card_not_active", "card is not active", apperrors.ErrConflict)

	// ErrCardExpired indicates a lifecycle transition was attempted on an expired card.
	ErrCardExpired = newError("card_expired", "card is expired", apperrors.ErrConflict)

	// ErrInsufficientBalance indicates the source card cannot cover the amount.
	ErrInsufficientBalance = newError("insufficient_balance", "insufficient balance", apperrors.ErrConflict)

	// ErrInvalidTransfer indicates source and destination are the same card.
	ErrInvalidTransfer = newError(
		"invalid_transfer",
		"source and destination cards must be different",
		apperrors.ErrConflict,
	)

	// ErrInvalidTargetStatus indicates a status change to anything but ACTIVE or BLOCKED.
	ErrInvalidTargetStatus = newError(
		"invalid_status",
		"target status must be ACTIVE or BLOCKED",
		apperrors.ErrInvalidInput,
	)

	// ErrInvalidBalance indicates an opening balance that is negative or has more
	// than BalanceScale fractional digits.
	ErrInvalidBalance = newError(
		"invalid_balance",
		"balance must be non-negative with at most 2 fractional digits",
		apperrors.ErrInvalidInput,
	)

	// ErrActivationForbidden indicates a non-administrator tried to activate a card.
	ErrActivationForbidden = newError(
		"forbidden",
		"only administrators can activate cards",
		apperrors.ErrForbidden,
	)

	// ErrCardBusy indicates the card locks could not be acquired in time. Nothing
	// was changed and the operation may be retried.
	ErrCardBusy = newError("card_busy", "card is busy, retry later", apperrors.ErrUnavailable)
)

// DuplicateCardError reports the masked number that is already stored.
type DuplicateCardError struct {
	MaskedNumber string
}

func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("card %s already exists", e.MaskedNumber)
}

func (e *DuplicateCardError) Unwrap() error { return ErrDuplicateCard }

// CardNotFoundError reports the identifier that could not be resolved.
type CardNotFoundError struct {
	CardID uuid.UUID
}

func (e *CardNotFoundError) Error() string {
	return fmt.Sprintf("card %s not found", e.CardID)
}

func (e *CardNotFoundError) Unwrap() error { return ErrCardNotFound }

// CardNotActiveError reports which transfer participant is ineligible.
type CardNotActiveError struct {
	CardID uuid.UUID
	Side   Side
	Status Status
}

func (e *CardNotActiveError) Error() string {
	return fmt.Sprintf("%s card %s is not active (status %s)", e.Side, e.CardID, e.Status)
}

func (e *CardNotActiveError) Unwrap() error { return ErrCardNotActive }

// CardExpiredError reports the expired card.
type CardExpiredError struct {
	CardID uuid.UUID
}

func (e *CardExpiredError) Error() string {
	return fmt.Sprintf("card %s is expired", e.CardID)
}

func (e *CardExpiredError) Unwrap() error { return ErrCardExpired }

// InsufficientBalanceError reports the available and requested amounts.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: available %s, requested %s",
		e.Available.StringFixed(BalanceScale),
		e.Requested.StringFixed(BalanceScale),
	)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
