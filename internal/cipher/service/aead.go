package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// aeadSealer wraps a cipher.AEAD and prepends a random nonce to each ciphertext.
// It is stateless and safe for concurrent use.
type aeadSealer struct {
	aead cipher.AEAD
}

// NewAEAD creates an AEAD for alg. The key must be exactly 32 bytes.
func NewAEAD(key []byte, alg cipherDomain.Algorithm) (AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: need 32 bytes, got %d", cipherDomain.ErrInvalidKeySize, len(key))
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch alg {
	case cipherDomain.AESGCM:
		block, blockErr := aes.NewCipher(key)
		if blockErr != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", blockErr)
		}
		aead, err = cipher.NewGCM(block)
	case cipherDomain.ChaCha20:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %q", cipherDomain.ErrUnsupportedAlgorithm, alg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s AEAD: %w", alg, err)
	}

	return &aeadSealer{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *aeadSealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open splits the nonce off sealed and authenticates the rest.
func (s *aeadSealer) Open(sealed, aad []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", cipherDomain.ErrDecryptionFailed)
	}
	plaintext, err := s.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cipherDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
