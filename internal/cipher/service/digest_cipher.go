package service

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

const defaultDigestSalt = "salt"

// DigestCipher is a one-way salted SHA-2 digest. The digest input is "--salt--plaintext--".
type DigestCipher struct {
	salt    string
	newHash func() hash.Hash
}

// NewDigestCipher builds a digest cipher. Options: salt (default "salt") and algorithm
// ("sha256", the default, or "sha512").
func NewDigestCipher(opts cipherDomain.Options) (*DigestCipher, error) {
	salt, err := opts.String(cipherDomain.OptionSalt, defaultDigestSalt)
	if err != nil {
		return nil, err
	}
	alg, err := opts.String(cipherDomain.OptionAlgorithm, "sha256")
	if err != nil {
		return nil, err
	}

	c := &DigestCipher{salt: salt}
	switch alg {
	case "sha256":
		c.newHash = sha256.New
	case "sha512":
		c.newHash = sha512.New
	default:
		return nil, fmt.Errorf("%w: digest algorithm %q", cipherDomain.ErrUnsupportedAlgorithm, alg)
	}
	return c, nil
}

// Kind returns cipherDomain.KindDigest.
func (c *DigestCipher) Kind() cipherDomain.Kind { return cipherDomain.KindDigest }

// CanDecrypt is always false.
func (c *DigestCipher) CanDecrypt() bool { return false }

// Encrypt returns the hex digest of the salted plaintext.
func (c *DigestCipher) Encrypt(_ context.Context, plaintext string) (cipherDomain.EncryptedValue, error) {
	h := c.newHash()
	h.Write([]byte("--" + c.salt + "--" + plaintext + "--"))
	return cipherDomain.NewEncryptedValue(cipherDomain.KindDigest, hex.EncodeToString(h.Sum(nil))), nil
}

// Decrypt always fails with ErrDecryptionUnsupported.
func (c *DigestCipher) Decrypt(context.Context, cipherDomain.EncryptedValue) (string, error) {
	return "", fmt.Errorf("%w: digests are one-way", cipherDomain.ErrDecryptionUnsupported)
}
