package service

import (
	"context"
	"errors"
	"fmt"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// CipherManager implements CipherFactory by dispatching on the cipher kind.
//
// Per-kind defaults fill options a field spec leaves unset, so deployment-wide choices
// (the KMS key URI, the default AEAD) live in configuration rather than in every schema.
type CipherManager struct {
	kms      KMSService
	defaults map[cipherDomain.Kind]cipherDomain.Options
}

// NewCipherManager creates a CipherManager. defaults may be nil.
func NewCipherManager(kms KMSService, defaults map[cipherDomain.Kind]cipherDomain.Options) *CipherManager {
	return &CipherManager{kms: kms, defaults: defaults}
}

// CreateCipher builds a cipher of the given kind.
func (m *CipherManager) CreateCipher(
	ctx context.Context,
	kind cipherDomain.Kind,
	opts cipherDomain.Options,
) (cipherDomain.Cipher, error) {
	merged := m.withDefaults(kind, opts)

	var (
		c   cipherDomain.Cipher
		err error
	)
	switch kind {
	case cipherDomain.KindDigest:
		c, err = NewDigestCipher(merged)
	case cipherDomain.KindSymmetric:
		c, err = NewSymmetricCipher(merged)
	case cipherDomain.KindAsymmetric:
		c, err = NewAsymmetricCipher(merged)
	case cipherDomain.KindPassword:
		c, err = NewPasswordCipher(merged)
	case cipherDomain.KindKMS:
		if m.kms == nil {
			return nil, fmt.Errorf("%w: no KMS service configured", cipherDomain.ErrCipherConfiguration)
		}
		c, err = NewKMSCipher(ctx, m.kms, merged)
	default:
		return nil, fmt.Errorf("%w: %q", cipherDomain.ErrUnsupportedKind, kind)
	}
	if err != nil {
		if !errors.Is(err, cipherDomain.ErrCipherConfiguration) {
			err = fmt.Errorf("%w: %s: %w", cipherDomain.ErrCipherConfiguration, kind, err)
		}
		return nil, err
	}
	return c, nil
}

func (m *CipherManager) withDefaults(kind cipherDomain.Kind, opts cipherDomain.Options) cipherDomain.Options {
	defaults := m.defaults[kind]
	if len(defaults) == 0 {
		return opts
	}
	merged := defaults.Clone()
	for k, v := range opts {
		if v != nil {
			merged[k] = v
		}
	}
	return merged
}
