package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Card number cipher error definitions.
var (
	// ErrEncryptionFailure indicates a card number could not be encrypted or decrypted.
	//
	// On decrypt it is returned when the stored value is not valid base64, is not a
	// whole number of AES blocks, or carries invalid PKCS#7 padding. Any of these
	// means the ciphertext was tampered with or was produced under a different
	// secret, so callers must propagate it instead of falling back to a default.
	//
	// It wraps no generic kind, so the HTTP layer reports it as 500.
	ErrEncryptionFailure = errors.New("encryption failure")

	// ErrEmptySecret indicates the cipher was constructed without a secret.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "card encryption secret is empty")
)
