package service

import (
	"context"
	"encoding/base64"
	"fmt"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// KMSCipher encrypts through a KMS keeper. The payload is base64 of the keeper's output.
type KMSCipher struct {
	keeper Keeper
}

// NewKMSCipher opens (or reuses) the keeper named by the key_uri option.
func NewKMSCipher(ctx context.Context, kms KMSService, opts cipherDomain.Options) (*KMSCipher, error) {
	uri, err := opts.RequiredString(cipherDomain.OptionKeyURI)
	if err != nil {
		return nil, err
	}
	keeper, err := kms.Keeper(ctx, uri)
	if err != nil {
		return nil, err
	}
	return &KMSCipher{keeper: keeper}, nil
}

// Kind returns cipherDomain.KindKMS.
func (c *KMSCipher) Kind() cipherDomain.Kind { return cipherDomain.KindKMS }

// CanDecrypt is always true.
func (c *KMSCipher) CanDecrypt() bool { return true }

// Encrypt sends plaintext to the keeper.
func (c *KMSCipher) Encrypt(ctx context.Context, plaintext string) (cipherDomain.EncryptedValue, error) {
	ciphertext, err := c.keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return cipherDomain.EncryptedValue{}, fmt.Errorf("failed to encrypt with KMS: %w", err)
	}
	return cipherDomain.NewEncryptedValue(
		cipherDomain.KindKMS,
		base64.StdEncoding.EncodeToString(ciphertext),
	), nil
}

// Decrypt asks the keeper to decrypt the payload.
func (c *KMSCipher) Decrypt(ctx context.Context, value cipherDomain.EncryptedValue) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(value.Payload())
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload", cipherDomain.ErrDecryptionFailed)
	}
	plaintext, err := c.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cipherDomain.ErrDecryptionFailed, err)
	}
	defer cipherDomain.Zero(plaintext)
	return string(plaintext), nil
}
