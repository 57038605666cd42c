package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
)

// RunExpireCards runs one expiry sweep: every card past its expiry date that is
// not yet EXPIRED is marked EXPIRED.
//
// Requirements: Database must be migrated and accessible.
func RunExpireCards(
	ctx context.Context,
	cards cardUseCase.CardUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("expiring overdue cards")

	count, err := cards.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("failed to expire cards: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"expired": count}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Expired %d card(s)\n", count)
	}

	logger.Info("expiry sweep completed", slog.Int64("count", count))
	return nil
}
