package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

const encryptionSecretSize = 32

// RunCreateEncryptionSecret generates a random card encryption secret and
// prints it as environment variables. With kmsKeyURI set the secret is
// wrapped by the KMS key first, and KMS_KEY_URI is printed alongside it.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
// Never use base64key in production.
func RunCreateEncryptionSecret(
	ctx context.Context,
	kms cryptoService.KMSService,
	writer io.Writer,
	kmsKeyURI string,
) error {
	secret := make([]byte, encryptionSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	encoded := base64.StdEncoding.EncodeToString(secret)

	_, _ = fmt.Fprintln(writer, "# Card encryption configuration")
	_, _ = fmt.Fprintln(writer, "# Changing the secret makes every stored card number unreadable.")

	if kmsKeyURI == "" {
		_, _ = fmt.Fprintf(writer, "CARD_ENCRYPTION_SECRET=\"%s\"\n", encoded)
		return nil
	}

	wrapped, err := kms.WrapSecret(ctx, kmsKeyURI, []byte(encoded))
	if err != nil {
		return fmt.Errorf("failed to wrap secret with KMS: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "CARD_ENCRYPTION_SECRET=\"%s\"\n", wrapped)
	return nil
}
