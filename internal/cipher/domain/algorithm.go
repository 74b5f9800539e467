package domain

import "fmt"

// Algorithm selects the AEAD used by the symmetric cipher kind.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Fastest on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred on hardware without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts an algorithm name into an Algorithm. An empty name selects AESGCM.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// KDF selects how the symmetric cipher turns the configured key into a 256-bit key.
type KDF string

const (
	// KDFArgon2id stretches a low-entropy password with Argon2id.
	KDFArgon2id KDF = "argon2id"

	// KDFHKDF expands high-entropy key material with HKDF-SHA256.
	KDFHKDF KDF = "hkdf"
)

// ParseKDF converts a KDF name into a KDF. An empty name selects KDFArgon2id.
func ParseKDF(s string) (KDF, error) {
	switch KDF(s) {
	case "", KDFArgon2id:
		return KDFArgon2id, nil
	case KDFHKDF:
		return KDFHKDF, nil
	default:
		return "", fmt.Errorf("%w: unsupported kdf %q", ErrInvalidOption, s)
	}
}
