// Package service provides the concrete cipher kinds used by field encryption and the
// factory that builds them from resolved options.
package service

import (
	"context"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// CipherFactory builds cipher instances from a kind and resolved options.
type CipherFactory interface {
	// CreateCipher returns a cipher of the given kind. Construction failures wrap
	// cipherDomain.ErrCipherConfiguration.
	CreateCipher(ctx context.Context, kind cipherDomain.Kind, opts cipherDomain.Options) (cipherDomain.Cipher, error)
}

// AEAD seals and opens byte payloads with authenticated encryption.
type AEAD interface {
	// Seal encrypts plaintext and returns nonce||ciphertext. aad may be nil.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open reverses Seal. The same aad must be supplied.
	Open(sealed, aad []byte) ([]byte, error)
}

// Keeper is the subset of *secrets.Keeper used by the kms cipher kind.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for key URIs and owns their lifetime.
type KMSService interface {
	// Keeper returns an open keeper for keyURI, reusing one opened earlier for the same URI.
	Keeper(ctx context.Context, keyURI string) (Keeper, error)

	// Close closes every keeper opened by this service.
	Close() error
}
