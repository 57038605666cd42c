package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// aesCardCipher implements CardCipher with AES-256 applied block by block
// (ECB) over PKCS#7 padded input.
//
// The transform is deterministic: the same card number always produces the same
// ciphertext under the same secret.
//
// Key derivation:
//
//	key = SHA-256(secret)
//
// The key is derived once in NewCardCipher. The resulting cipher.Block is read-only
// after construction, so a single instance is shared by every request.
type aesCardCipher struct {
	block cipher.Block
}

// NewCardCipher derives a 32-byte AES key from secret and returns a CardCipher.
//
// The secret bytes are not retained; callers may zero them after this returns.
// Returns cryptoDomain.ErrEmptySecret when secret is empty.
func NewCardCipher(secret []byte) (CardCipher, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrEmptySecret
	}

	key := sha256.Sum256(secret)
	defer cryptoDomain.Zero(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &aesCardCipher{block: block}, nil
}

// Encrypt pads the UTF-8 bytes of plaintext, encrypts each block and returns the
// standard base64 encoding. An empty plaintext yields one full padding block.
func (c *aesCardCipher) Encrypt(plaintext string) (string, error) {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))

	for start := 0; start < len(padded); start += aes.BlockSize {
		c.block.Encrypt(out[start:start+aes.BlockSize], padded[start:start+aes.BlockSize])
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt decodes, decrypts and unpads ciphertext.
func (c *aesCardCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", cryptoDomain.ErrEncryptionFailure)
	}

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", cryptoDomain.ErrEncryptionFailure)
	}

	out := make([]byte, len(raw))
	for start := 0; start < len(raw); start += aes.BlockSize {
		c.block.Decrypt(out[start:start+aes.BlockSize], raw[start:start+aes.BlockSize])
	}

	plaintext, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrEncryptionFailure, err)
	}

	return string(plaintext), nil
}

// pkcs7Pad appends between 1 and blockSize bytes, each holding the pad length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errInvalidPadding
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errInvalidPadding
		}
	}

	return data[:len(data)-n], nil
}

var errInvalidPadding = errors.New("invalid padding")
