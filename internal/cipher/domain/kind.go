// Package domain defines the cipher collaborator contract used by field encryption:
// cipher kinds, resolved options, the Cipher interface and the EncryptedValue wrapper.
package domain

import "fmt"

// Kind names a family of ciphers a field can be registered with.
type Kind string

const (
	// KindDigest is a salted one-way SHA-2 digest. Values can never be decrypted.
	KindDigest Kind = "digest"

	// KindSymmetric is password-derived AEAD encryption (AES-256-GCM or ChaCha20-Poly1305).
	KindSymmetric Kind = "symmetric"

	// KindAsymmetric is public-key encryption with NaCl anonymous sealed boxes.
	// Decryption needs the private key; encrypt-only instances report CanDecrypt false.
	KindAsymmetric Kind = "asymmetric"

	// KindPassword is an Argon2id password hash. One-way, but supports verification.
	KindPassword Kind = "password"

	// KindKMS delegates encryption to a gocloud.dev/secrets keeper (cloud KMS, Vault, local keys).
	KindKMS Kind = "kms"
)

var kinds = []Kind{KindDigest, KindSymmetric, KindAsymmetric, KindPassword, KindKMS}

// Kinds returns every supported kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// IsValid reports whether k is a supported kind.
func (k Kind) IsValid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}
