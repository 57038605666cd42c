package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardMocks "github.com/allisson/cardvault/internal/card/usecase/mocks"
)

func TestRunRevealCardNumber(t *testing.T) {
	ctx := context.Background()
	cardID := uuid.Must(uuid.NewV7())
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		mockUseCase.On("RevealNumber", ctx, cardID, ownerID).Return("4111111111111111", nil)

		var out, logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		err := RunRevealCardNumber(ctx, mockUseCase, logger, &out, cardID.String(), ownerID.String())

		require.NoError(t, err)
		require.Equal(t, "4111111111111111\n", out.String())
		require.NotContains(t, logs.String(), "4111111111111111")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-card-id", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}

		var out bytes.Buffer
		err := RunRevealCardNumber(ctx, mockUseCase, slog.Default(), &out, "not-a-uuid", ownerID.String())

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid card id")
		mockUseCase.AssertNotCalled(t, "RevealNumber")
	})

	t.Run("invalid-owner-id", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}

		var out bytes.Buffer
		err := RunRevealCardNumber(ctx, mockUseCase, slog.Default(), &out, cardID.String(), "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid owner id")
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		mockUseCase.On("RevealNumber", ctx, cardID, ownerID).Return("", cardDomain.ErrCardNotFound)

		var out bytes.Buffer
		err := RunRevealCardNumber(ctx, mockUseCase, slog.Default(), &out, cardID.String(), ownerID.String())

		require.ErrorIs(t, err, cardDomain.ErrCardNotFound)
		require.Empty(t, out.String())
	})
}
