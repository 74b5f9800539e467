package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

const (
	defaultSymmetricSalt = "encryptor"
	hkdfInfo             = "encryptor-field-encryption-v1"

	// Argon2id parameters follow the OWASP minimum (19 MiB, 2 passes, 1 lane).
	argon2Time    uint32 = 2
	argon2Memory  uint32 = 19 * 1024
	argon2Threads uint8  = 1
	keyLen        uint32 = 32
)

// SymmetricCipher encrypts with an AEAD keyed from a password or raw key material.
//
// Options:
//   - key: password or key material (required)
//   - salt: KDF salt, often deferred to a per-record value (default "encryptor")
//   - algorithm: "aes-gcm" (default) or "chacha20-poly1305"
//   - kdf: "argon2id" (default) for passwords, "hkdf" for high-entropy keys
//   - aad: additional authenticated data binding the ciphertext to a context
//
// The payload is base64(nonce||ciphertext).
type SymmetricCipher struct {
	aead      AEAD
	aad       []byte
	algorithm cipherDomain.Algorithm
}

// NewSymmetricCipher derives the key and builds the AEAD.
func NewSymmetricCipher(opts cipherDomain.Options) (*SymmetricCipher, error) {
	key, err := opts.RequiredString(cipherDomain.OptionKey)
	if err != nil {
		return nil, err
	}
	salt, err := opts.String(cipherDomain.OptionSalt, defaultSymmetricSalt)
	if err != nil {
		return nil, err
	}
	algName, err := opts.String(cipherDomain.OptionAlgorithm, "")
	if err != nil {
		return nil, err
	}
	alg, err := cipherDomain.ParseAlgorithm(algName)
	if err != nil {
		return nil, err
	}
	kdfName, err := opts.String(cipherDomain.OptionKDF, "")
	if err != nil {
		return nil, err
	}
	kdf, err := cipherDomain.ParseKDF(kdfName)
	if err != nil {
		return nil, err
	}
	aad, err := opts.Bytes(cipherDomain.OptionAAD)
	if err != nil {
		return nil, err
	}

	derived, err := deriveKey(kdf, []byte(key), []byte(salt))
	if err != nil {
		return nil, err
	}
	defer cipherDomain.Zero(derived)

	aead, err := NewAEAD(derived, alg)
	if err != nil {
		return nil, err
	}

	return &SymmetricCipher{aead: aead, aad: aad, algorithm: alg}, nil
}

func deriveKey(kdf cipherDomain.KDF, secret, salt []byte) ([]byte, error) {
	switch kdf {
	case cipherDomain.KDFHKDF:
		out := make([]byte, keyLen)
		if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(hkdfInfo)), out); err != nil {
			return nil, fmt.Errorf("%w: hkdf: %v", cipherDomain.ErrCipherConfiguration, err)
		}
		return out, nil
	default:
		return argon2.IDKey(secret, salt, argon2Time, argon2Memory, argon2Threads, keyLen), nil
	}
}

// Kind returns cipherDomain.KindSymmetric.
func (c *SymmetricCipher) Kind() cipherDomain.Kind { return cipherDomain.KindSymmetric }

// CanDecrypt is always true.
func (c *SymmetricCipher) CanDecrypt() bool { return true }

// Algorithm returns the AEAD in use.
func (c *SymmetricCipher) Algorithm() cipherDomain.Algorithm { return c.algorithm }

// Encrypt seals plaintext under a fresh nonce.
func (c *SymmetricCipher) Encrypt(_ context.Context, plaintext string) (cipherDomain.EncryptedValue, error) {
	sealed, err := c.aead.Seal([]byte(plaintext), c.aad)
	if err != nil {
		return cipherDomain.EncryptedValue{}, err
	}
	return cipherDomain.NewEncryptedValue(
		cipherDomain.KindSymmetric,
		base64.StdEncoding.EncodeToString(sealed),
	), nil
}

// Decrypt opens the payload and returns the plaintext.
func (c *SymmetricCipher) Decrypt(_ context.Context, value cipherDomain.EncryptedValue) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(value.Payload())
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload", cipherDomain.ErrDecryptionFailed)
	}
	plaintext, err := c.aead.Open(sealed, c.aad)
	if err != nil {
		return "", err
	}
	defer cipherDomain.Zero(plaintext)
	return string(plaintext), nil
}
