package dto

import (
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CardResponse represents a card in API responses. The encrypted number is
// never exposed.
type CardResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	MaskedNumber string    `json:"masked_number"`
	Owner        string    `json:"owner"`
	ExpiryDate   string    `json:"expiry_date"`
	Status       string    `json:"status"`
	Balance      string    `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapCardToResponse converts a domain card to an API response.
func MapCardToResponse(card *cardDomain.Card) CardResponse {
	return CardResponse{
		ID:           card.ID.String(),
		OwnerID:      card.OwnerID.String(),
		MaskedNumber: card.MaskedNumber,
		Owner:        card.Owner,
		ExpiryDate:   card.ExpiryDate.Format(customValidation.DateLayout),
		Status:       string(card.Status),
		Balance:      card.Balance.StringFixed(cardDomain.BalanceScale),
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}

// ListCardsResponse represents a list of cards in API responses.
type ListCardsResponse struct {
	Data []CardResponse `json:"data"`
}

// MapCardsToListResponse converts domain cards to a list API response.
func MapCardsToListResponse(cards []*cardDomain.Card) ListCardsResponse {
	data := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		data = append(data, MapCardToResponse(card))
	}
	return ListCardsResponse{Data: data}
}

// TransferResultResponse is returned by a successful transfer.
type TransferResultResponse struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// MapTransferResultToResponse converts a transfer result to an API response.
func MapTransferResultToResponse(result *cardDomain.TransferResult) TransferResultResponse {
	return TransferResultResponse{
		TransactionID: result.TransactionID.String(),
		Message:       result.Message,
	}
}

// TransferResponse represents a transfer log entry in API responses.
type TransferResponse struct {
	ID         string    `json:"id"`
	FromCardID string    `json:"from_card_id"`
	ToCardID   string    `json:"to_card_id"`
	Amount     string    `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapTransferToResponse converts a domain transfer to an API response.
func MapTransferToResponse(transfer *cardDomain.Transfer) TransferResponse {
	return TransferResponse{
		ID:         transfer.ID.String(),
		FromCardID: transfer.FromCardID.String(),
		ToCardID:   transfer.ToCardID.String(),
		Amount:     transfer.Amount.StringFixed(cardDomain.BalanceScale),
		CreatedAt:  transfer.CreatedAt,
	}
}

// ListTransfersResponse represents a list of transfers in API responses.
type ListTransfersResponse struct {
	Data []TransferResponse `json:"data"`
}

// MapTransfersToListResponse converts domain transfers to a list API response.
func MapTransfersToListResponse(transfers []*cardDomain.Transfer) ListTransfersResponse {
	data := make([]TransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		data = append(data, MapTransferToResponse(transfer))
	}
	return ListTransfersResponse{Data: data}
}
