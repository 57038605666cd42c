package usecase

import (
	"context"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/database"
)

// withRowLocks runs fn in a transaction whose row lock waits are bounded by
// timeout, both on the server and through the context deadline. Row locks held
// by another process then fail with cardDomain.ErrCardBusy instead of blocking.
func withRowLocks(
	ctx context.Context,
	txManager database.TxManager,
	cardRepo CardRepository,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := txManager.WithTx(txCtx, func(txCtx context.Context) error {
		if err := cardRepo.SetLockTimeout(txCtx, timeout); err != nil {
			return err
		}
		return fn(txCtx)
	})
	if err != nil && ctx.Err() == nil && database.IsLockTimeout(err) {
		return cardDomain.ErrCardBusy
	}
	return err
}
