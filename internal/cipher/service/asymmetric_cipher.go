package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// AsymmetricCipher encrypts to a Curve25519 public key with NaCl anonymous sealed boxes.
// Without a private key the instance is encrypt-only and CanDecrypt reports false.
//
// Options: public_key and private_key, both base64-encoded 32-byte keys. At least one is
// required. The public key is derived from the private key and must match it when both
// are given.
type AsymmetricCipher struct {
	publicKey  *[32]byte
	privateKey *[32]byte
}

// KeyPair holds a base64-encoded key pair for the asymmetric kind.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// GenerateKeyPair creates a new Curve25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate key pair: %w", err)
	}
	defer cipherDomain.Zero(priv[:])
	return KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(pub[:]),
		PrivateKey: base64.StdEncoding.EncodeToString(priv[:]),
	}, nil
}

// NewAsymmetricCipher decodes the configured keys.
func NewAsymmetricCipher(opts cipherDomain.Options) (*AsymmetricCipher, error) {
	pubStr, err := opts.String(cipherDomain.OptionPublicKey, "")
	if err != nil {
		return nil, err
	}
	privStr, err := opts.String(cipherDomain.OptionPrivateKey, "")
	if err != nil {
		return nil, err
	}
	if pubStr == "" && privStr == "" {
		return nil, fmt.Errorf("%w: %s or %s", cipherDomain.ErrMissingOption,
			cipherDomain.OptionPublicKey, cipherDomain.OptionPrivateKey)
	}

	c := &AsymmetricCipher{}
	if pubStr != "" {
		if c.publicKey, err = decodeKey(cipherDomain.OptionPublicKey, pubStr); err != nil {
			return nil, err
		}
	}
	if privStr == "" {
		return c, nil
	}

	if c.privateKey, err = decodeKey(cipherDomain.OptionPrivateKey, privStr); err != nil {
		return nil, err
	}
	derived, err := curve25519.X25519(c.privateKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: derive public key: %v", cipherDomain.ErrInvalidOption, err)
	}
	switch {
	case c.publicKey == nil:
		c.publicKey = new([32]byte)
		copy(c.publicKey[:], derived)
	case subtle.ConstantTimeCompare(c.publicKey[:], derived) != 1:
		return nil, fmt.Errorf("%w: %s does not belong to %s", cipherDomain.ErrInvalidOption,
			cipherDomain.OptionPublicKey, cipherDomain.OptionPrivateKey)
	}

	return c, nil
}

func decodeKey(name, s string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", cipherDomain.ErrInvalidOption, name)
	}
	defer cipherDomain.Zero(raw)
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: %s must be 32 bytes, got %d", cipherDomain.ErrInvalidKeySize, name, len(raw))
	}
	key := new([32]byte)
	copy(key[:], raw)
	return key, nil
}

// Kind returns cipherDomain.KindAsymmetric.
func (c *AsymmetricCipher) Kind() cipherDomain.Kind { return cipherDomain.KindAsymmetric }

// CanDecrypt reports whether a private key is configured.
func (c *AsymmetricCipher) CanDecrypt() bool { return c.privateKey != nil }

// Encrypt seals plaintext to the public key.
func (c *AsymmetricCipher) Encrypt(_ context.Context, plaintext string) (cipherDomain.EncryptedValue, error) {
	sealed, err := box.SealAnonymous(nil, []byte(plaintext), c.publicKey, rand.Reader)
	if err != nil {
		return cipherDomain.EncryptedValue{}, fmt.Errorf("failed to seal box: %w", err)
	}
	return cipherDomain.NewEncryptedValue(
		cipherDomain.KindAsymmetric,
		base64.StdEncoding.EncodeToString(sealed),
	), nil
}

// Decrypt opens the sealed box with the private key.
func (c *AsymmetricCipher) Decrypt(_ context.Context, value cipherDomain.EncryptedValue) (string, error) {
	if c.privateKey == nil {
		return "", fmt.Errorf("%w: no private key configured", cipherDomain.ErrDecryptionUnsupported)
	}
	sealed, err := base64.StdEncoding.DecodeString(value.Payload())
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload", cipherDomain.ErrDecryptionFailed)
	}
	plaintext, ok := box.OpenAnonymous(nil, sealed, c.publicKey, c.privateKey)
	if !ok {
		return "", fmt.Errorf("%w: sealed box rejected", cipherDomain.ErrDecryptionFailed)
	}
	defer cipherDomain.Zero(plaintext)
	return string(plaintext), nil
}
