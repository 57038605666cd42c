// Package domain defines the card aggregate, its status lifecycle and the
// transfer records produced when funds move between two cards of one owner.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a card.
type Status string

const (
	// StatusActive cards may send and receive transfers.
	StatusActive Status = "ACTIVE"
	// StatusBlocked cards keep their balance but cannot take part in transfers.
	StatusBlocked Status = "BLOCKED"
	// StatusExpired is terminal. It is only ever set by the expiry check.
	StatusExpired Status = "EXPIRED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusExpired:
		return true
	}
	return false
}

// BalanceScale is the number of fractional digits kept for balances and amounts.
const BalanceScale = 2

// ValidBalance reports whether b is non-negative and needs no rounding to BalanceScale.
func ValidBalance(b decimal.Decimal) bool {
	return !b.IsNegative() && b.Equal(b.Truncate(BalanceScale))
}

// Card is a bank card held in custody for one user.
type Card struct {
	// ID is the unique identifier, assigned at creation.
	ID uuid.UUID
	// OwnerID references the owning user. Immutable.
	OwnerID uuid.UUID
	// NumberCiphertext is the encrypted raw card number. Never serialized.
	NumberCiphertext string `json:"-"`
	// MaskedNumber is the display form, also used as the de-duplication key.
	MaskedNumber string
	// Owner is the cardholder display name.
	Owner string
	// ExpiryDate is the last valid calendar day, stored at midnight UTC.
	ExpiryDate time.Time
	Status     Status
	// Balance is non-negative with BalanceScale fractional digits.
	Balance decimal.Decimal
	// Version increments on every write.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transfer is the append-only log entry written for each successful transfer.
type Transfer struct {
	// ID is the transaction identifier returned to the caller.
	ID         uuid.UUID
	OwnerID    uuid.UUID
	FromCardID uuid.UUID
	ToCardID   uuid.UUID
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

// TransferResult is returned to the caller of a successful transfer.
type TransferResult struct {
	TransactionID uuid.UUID
	Message       string
}

// TransferSucceededMessage is the outcome message of every successful transfer.
const TransferSucceededMessage = "Transfer completed successfully"

// Side names a participant of a transfer.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
)

// CallerScope identifies who is invoking a card operation. Owner-scoped callers
// only see their own cards; administrators see every card.
type CallerScope struct {
	UserID uuid.UUID
	Admin  bool
}

// OwnerScope returns the scope of a regular card holder.
func OwnerScope(userID uuid.UUID) CallerScope {
	return CallerScope{UserID: userID}
}

// AdminScope returns the scope of an administrator.
func AdminScope(userID uuid.UUID) CallerScope {
	return CallerScope{UserID: userID, Admin: true}
}

// CanAccess reports whether the scope may act on card.
func (s CallerScope) CanAccess(card *Card) bool {
	return s.Admin || card.OwnerID == s.UserID
}
