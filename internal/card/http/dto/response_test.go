package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

func TestMapCardToResponse(t *testing.T) {
	card := &cardDomain.Card{
		ID:               uuid.Must(uuid.NewV7()),
		OwnerID:          uuid.Must(uuid.NewV7()),
		NumberCiphertext: "c2VjcmV0LWNpcGhlcnRleHQ=",
		MaskedNumber:     "**** **** **** 3456",
		Owner:            "John Doe",
		ExpiryDate:       time.Date(2028, time.December, 31, 0, 0, 0, 0, time.UTC),
		Status:           cardDomain.StatusActive,
		Balance:          decimal.NewFromInt(800),
	}

	response := MapCardToResponse(card)
	assert.Equal(t, "800.00", response.Balance)
	assert.Equal(t, "2028-12-31", response.ExpiryDate)
	assert.Equal(t, "ACTIVE", response.Status)

	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.NotContains(t, string(body), card.NumberCiphertext)
	assert.Contains(t, string(body), `"masked_number":"**** **** **** 3456"`)
}

func TestMapTransfers(t *testing.T) {
	result := &cardDomain.TransferResult{
		TransactionID: uuid.Must(uuid.NewV7()),
		Message:       cardDomain.TransferSucceededMessage,
	}
	response := MapTransferResultToResponse(result)
	assert.Equal(t, result.TransactionID.String(), response.TransactionID)
	assert.NotEmpty(t, response.TransactionID)

	list := MapTransfersToListResponse([]*cardDomain.Transfer{
		{ID: uuid.Must(uuid.NewV7()), Amount: decimal.RequireFromString("200.5")},
	})
	require.Len(t, list.Data, 1)
	assert.Equal(t, "200.50", list.Data[0].Amount)

	body, err := json.Marshal(MapCardsToListResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
}
