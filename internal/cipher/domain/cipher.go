package domain

import "context"

// Cipher is a cipher instance bound to concrete option values.
//
// Implementations are safe for concurrent use. Encrypt returns an EncryptedValue tagged as
// encrypted but not yet bound to the cipher; binding is the caller's job (see
// EncryptedValue.WithCipher).
type Cipher interface {
	// Kind reports the family this cipher belongs to.
	Kind() Kind

	// CanDecrypt reports whether Decrypt is supported by this instance.
	CanDecrypt() bool

	// Encrypt transforms plaintext into an encrypted value.
	Encrypt(ctx context.Context, plaintext string) (EncryptedValue, error)

	// Decrypt reverses Encrypt. One-way ciphers return ErrDecryptionUnsupported.
	Decrypt(ctx context.Context, value EncryptedValue) (string, error)
}
