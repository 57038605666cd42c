package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
)

// RunRevealCardNumber decrypts and prints the full number of a card. The card
// must belong to ownerID. The number is never written to the log.
//
// Requirements: Database must be migrated and CARD_ENCRYPTION_SECRET must be the
// secret the card was stored with.
func RunRevealCardNumber(
	ctx context.Context,
	cards cardUseCase.CardUseCase,
	logger *slog.Logger,
	writer io.Writer,
	cardID, ownerID string,
) error {
	parsedCardID, err := uuid.Parse(cardID)
	if err != nil {
		return fmt.Errorf("invalid card id: %w", err)
	}
	parsedOwnerID, err := uuid.Parse(ownerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	number, err := cards.RevealNumber(ctx, parsedCardID, parsedOwnerID)
	if err != nil {
		return fmt.Errorf("failed to reveal card number: %w", err)
	}

	_, _ = fmt.Fprintln(writer, number)

	logger.Info("card number revealed",
		slog.String("card_id", parsedCardID.String()),
		slog.String("owner_id", parsedOwnerID.String()),
	)
	return nil
}
