package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper used to unwrap the card encryption
// secret when it is stored as KMS ciphertext.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
