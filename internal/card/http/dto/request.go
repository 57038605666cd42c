// Package dto provides data transfer objects for the card and transfer endpoints.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CreateCardRequest contains the data of a new card. Balance defaults to "0.00".
type CreateCardRequest struct {
	Number     string `json:"number"`
	Owner      string `json:"owner"`
	ExpiryDate string `json:"expiry_date"`
	Balance    string `json:"balance"`
}

func (r *CreateCardRequest) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&r.Number, validation.Required, customValidation.CardNumber),
		validation.Field(&r.Owner,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ExpiryDate, validation.Required, customValidation.Date),
		validation.Field(&r.Balance, customValidation.Money{AllowZero: true}),
	}
}

// Validate checks if the create card request is valid.
func (r *CreateCardRequest) Validate() error {
	return validation.ValidateStruct(r, r.rules()...)
}

// ToInput converts a validated request into the use case input for ownerID.
func (r *CreateCardRequest) ToInput(ownerID uuid.UUID) (cardUseCase.CreateCardInput, error) {
	expiry, err := time.Parse(customValidation.DateLayout, r.ExpiryDate)
	if err != nil {
		return cardUseCase.CreateCardInput{}, err
	}

	balance := "0"
	if r.Balance != "" {
		balance = r.Balance
	}
	amount, err := customValidation.ParseMoney(balance)
	if err != nil {
		return cardUseCase.CreateCardInput{}, err
	}

	return cardUseCase.CreateCardInput{
		Number:     r.Number,
		Owner:      r.Owner,
		ExpiryDate: expiry,
		Balance:    amount,
		OwnerID:    ownerID,
	}, nil
}

// AdminCreateCardRequest creates a card on behalf of OwnerID.
type AdminCreateCardRequest struct {
	CreateCardRequest
	OwnerID string `json:"owner_id"`
}

// Validate checks if the admin create card request is valid.
func (r *AdminCreateCardRequest) Validate() error {
	rules := append(
		r.rules(),
		validation.Field(&r.OwnerID, validation.Required, customValidation.UUID),
	)
	return validation.ValidateStruct(r, rules...)
}

// TransferRequest moves Amount from FromCardID to ToCardID.
type TransferRequest struct {
	FromCardID string `json:"from_card_id"`
	ToCardID   string `json:"to_card_id"`
	Amount     string `json:"amount"`
}

// Validate checks if the transfer request is valid. Amounts must be positive
// with at most two fractional digits.
func (r *TransferRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FromCardID, validation.Required, customValidation.UUID),
		validation.Field(&r.ToCardID, validation.Required, customValidation.UUID),
		validation.Field(&r.Amount, validation.Required, customValidation.Money{}),
	)
}

// ToInput converts a validated request into the use case input for ownerID.
func (r *TransferRequest) ToInput(ownerID uuid.UUID) (cardUseCase.TransferInput, error) {
	from, err := uuid.Parse(r.FromCardID)
	if err != nil {
		return cardUseCase.TransferInput{}, err
	}
	to, err := uuid.Parse(r.ToCardID)
	if err != nil {
		return cardUseCase.TransferInput{}, err
	}
	amount, err := customValidation.ParseMoney(r.Amount)
	if err != nil {
		return cardUseCase.TransferInput{}, err
	}

	return cardUseCase.TransferInput{
		FromCardID: from,
		ToCardID:   to,
		Amount:     amount,
		OwnerID:    ownerID,
	}, nil
}
