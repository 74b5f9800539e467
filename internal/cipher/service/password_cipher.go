package service

import (
	"context"
	"fmt"

	"github.com/allisson/go-pwdhash"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// PasswordCipher hashes values with Argon2id in PHC string format. Hashes are salted per
// call, so the same plaintext never produces the same payload; use Verify to compare.
type PasswordCipher struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordCipher builds a password cipher. Option policy: "interactive" (default) or
// "moderate".
func NewPasswordCipher(opts cipherDomain.Options) (*PasswordCipher, error) {
	name, err := opts.String(cipherDomain.OptionPolicy, "interactive")
	if err != nil {
		return nil, err
	}

	var hasher *pwdhash.PasswordHasher
	switch name {
	case "interactive":
		hasher, err = pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	case "moderate":
		hasher, err = pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	default:
		return nil, fmt.Errorf("%w: password policy %q", cipherDomain.ErrInvalidOption, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cipherDomain.ErrCipherConfiguration, err)
	}
	return &PasswordCipher{hasher: hasher}, nil
}

// Kind returns cipherDomain.KindPassword.
func (c *PasswordCipher) Kind() cipherDomain.Kind { return cipherDomain.KindPassword }

// CanDecrypt is always false.
func (c *PasswordCipher) CanDecrypt() bool { return false }

// Encrypt hashes plaintext.
func (c *PasswordCipher) Encrypt(_ context.Context, plaintext string) (cipherDomain.EncryptedValue, error) {
	hashed, err := c.hasher.Hash([]byte(plaintext))
	if err != nil {
		return cipherDomain.EncryptedValue{}, fmt.Errorf("failed to hash value: %w", err)
	}
	return cipherDomain.NewEncryptedValue(cipherDomain.KindPassword, hashed), nil
}

// Decrypt always fails with ErrDecryptionUnsupported.
func (c *PasswordCipher) Decrypt(context.Context, cipherDomain.EncryptedValue) (string, error) {
	return "", fmt.Errorf("%w: password hashes are one-way", cipherDomain.ErrDecryptionUnsupported)
}

// Verify reports whether plaintext matches the hashed value in constant time.
func (c *PasswordCipher) Verify(plaintext string, value cipherDomain.EncryptedValue) (bool, error) {
	if value.Kind() != cipherDomain.KindPassword {
		return false, fmt.Errorf("%w: cannot verify %s value", cipherDomain.ErrCipherConfiguration, value.Kind())
	}
	ok, err := c.hasher.Verify([]byte(plaintext), value.Payload())
	if err != nil {
		return false, fmt.Errorf("%w: %v", cipherDomain.ErrDecryptionFailed, err)
	}
	return ok, nil
}
