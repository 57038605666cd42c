// Package service provides the cryptographic services protecting card numbers at rest:
// the deterministic card number cipher and the KMS integration used to unwrap its secret.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// CardCipher encrypts raw card numbers for storage and decrypts them back.
// Implementations are safe for concurrent use.
type CardCipher interface {
	// Encrypt returns the base64 ciphertext of plaintext.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt. It returns cryptoDomain.ErrEncryptionFailure for
	// malformed, truncated or tampered input.
	Decrypt(ciphertext string) (string, error)
}

// KMSService opens KMS keepers and uses them to wrap and unwrap the card
// encryption secret.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)

	// WrapSecret encrypts secret with the keeper at keyURI and returns base64 ciphertext.
	WrapSecret(ctx context.Context, keyURI string, secret []byte) (string, error)

	// UnwrapSecret decodes and decrypts a secret produced by WrapSecret.
	UnwrapSecret(ctx context.Context, keyURI, wrapped string) ([]byte, error)
}
