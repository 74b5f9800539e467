package domain

import (
	"context"
	"fmt"
	"strings"
)

// StoredPrefix starts the stored form of every encrypted value: "enc:<kind>:<payload>".
const StoredPrefix = "enc:"

// EncryptedValue is a payload produced by a cipher, tagged as already encrypted, and
// optionally bound to the cipher instance able to reverse it.
//
// The zero value is an untagged, unbound empty payload. EncryptedValue is immutable:
// WithCipher returns a bound copy.
type EncryptedValue struct {
	kind      Kind
	payload   string
	encrypted bool
	cipher    Cipher
}

// NewEncryptedValue tags payload as ciphertext produced by a cipher of the given kind.
func NewEncryptedValue(kind Kind, payload string) EncryptedValue {
	return EncryptedValue{kind: kind, payload: payload, encrypted: true}
}

// ParseEncryptedValue parses the stored form "enc:<kind>:<payload>". The result is tagged
// as encrypted and unbound. ok is false when s is not in stored form or names an unknown kind.
func ParseEncryptedValue(s string) (value EncryptedValue, ok bool) {
	rest, found := strings.CutPrefix(s, StoredPrefix)
	if !found {
		return EncryptedValue{}, false
	}
	kind, payload, found := strings.Cut(rest, ":")
	if !found || !Kind(kind).IsValid() {
		return EncryptedValue{}, false
	}
	return NewEncryptedValue(Kind(kind), payload), true
}

// Kind returns the kind of cipher that produced the payload.
func (v EncryptedValue) Kind() Kind { return v.kind }

// Payload returns the cipher output.
func (v EncryptedValue) Payload() string { return v.payload }

// IsEncrypted reports whether the value is tagged as already transformed.
func (v EncryptedValue) IsEncrypted() bool { return v.encrypted }

// Cipher returns the bound cipher, or nil.
func (v EncryptedValue) Cipher() Cipher { return v.cipher }

// HasCipher reports whether a cipher is bound.
func (v EncryptedValue) HasCipher() bool { return v.cipher != nil }

// WithCipher returns a copy of v bound to c.
func (v EncryptedValue) WithCipher(c Cipher) EncryptedValue {
	v.cipher = c
	return v
}

// CanDecrypt reports whether a bound cipher of the same kind can reverse the payload.
func (v EncryptedValue) CanDecrypt() bool {
	return v.cipher != nil && v.cipher.Kind() == v.kind && v.cipher.CanDecrypt()
}

// Decrypt returns the plaintext using the bound cipher.
func (v EncryptedValue) Decrypt(ctx context.Context) (string, error) {
	switch {
	case v.cipher == nil:
		return "", fmt.Errorf("%w: no cipher bound to %s value", ErrDecryptionUnsupported, v.kind)
	case v.cipher.Kind() != v.kind:
		return "", fmt.Errorf(
			"%w: %s cipher bound to %s value",
			ErrCipherConfiguration,
			v.cipher.Kind(),
			v.kind,
		)
	case !v.cipher.CanDecrypt():
		return "", fmt.Errorf("%w: %s cipher cannot decrypt", ErrDecryptionUnsupported, v.kind)
	}
	return v.cipher.Decrypt(ctx, v)
}

// String returns the stored form "enc:<kind>:<payload>".
func (v EncryptedValue) String() string {
	return StoredPrefix + string(v.kind) + ":" + v.payload
}
