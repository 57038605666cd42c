package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// WrapSecret encrypts secret with the KMS key and returns it base64 encoded, ready
// to be stored in CARD_ENCRYPTION_SECRET.
func (k *kmsService) WrapSecret(ctx context.Context, keyURI string, secret []byte) (string, error) {
	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// UnwrapSecret decodes wrapped and decrypts it with the KMS key.
func (k *kmsService) UnwrapSecret(ctx context.Context, keyURI, wrapped string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wrapped secret: %w", err)
	}

	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	secret, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret with KMS: %w", err)
	}

	return secret, nil
}

// ResolveCardSecret returns the raw card encryption secret. When keyURI is empty the
// configured value is used as is; otherwise it is treated as the output of WrapSecret.
func ResolveCardSecret(ctx context.Context, kms KMSService, keyURI, configured string) ([]byte, error) {
	if configured == "" {
		return nil, cryptoDomain.ErrEmptySecret
	}
	if keyURI == "" {
		return []byte(configured), nil
	}
	return kms.UnwrapSecret(ctx, keyURI, configured)
}
