package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	// ValueEmpty is an absent value.
	ValueEmpty ValueKind = iota
	// ValuePlaintext is a value not yet transformed.
	ValuePlaintext
	// ValueTagged is cipher output carried as a cipherDomain.EncryptedValue.
	ValueTagged
)

func (k ValueKind) String() string {
	switch k {
	case ValueEmpty:
		return "empty"
	case ValuePlaintext:
		return "plaintext"
	case ValueTagged:
		return "tagged"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is the content of one record field: Empty, Plaintext or Tagged.
// The zero value is Empty.
type Value struct {
	kind      ValueKind
	text      string
	encrypted cipherDomain.EncryptedValue
}

// Empty returns the absent value.
func Empty() Value { return Value{} }

// Plaintext wraps an untransformed string.
func Plaintext(s string) Value {
	return Value{kind: ValuePlaintext, text: s}
}

// Tagged wraps cipher output.
func Tagged(ev cipherDomain.EncryptedValue) Value {
	return Value{kind: ValueTagged, encrypted: ev}
}

// Kind returns the variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.kind == ValueEmpty }

// IsPlaintext reports whether v is the Plaintext variant.
func (v Value) IsPlaintext() bool { return v.kind == ValuePlaintext }

// IsTagged reports whether v is the Tagged variant.
func (v Value) IsTagged() bool { return v.kind == ValueTagged }

// Text returns the plaintext and true for the Plaintext variant.
func (v Value) Text() (string, bool) {
	if v.kind != ValuePlaintext {
		return "", false
	}
	return v.text, true
}

// Encrypted returns the wrapped EncryptedValue and true for the Tagged variant.
func (v Value) Encrypted() (cipherDomain.EncryptedValue, bool) {
	if v.kind != ValueTagged {
		return cipherDomain.EncryptedValue{}, false
	}
	return v.encrypted, true
}

// IsEncrypted reports whether v is tagged as already transformed.
func (v Value) IsEncrypted() bool {
	return v.kind == ValueTagged && v.encrypted.IsEncrypted()
}

// IsBlank reports whether v is Empty, whitespace-only plaintext, or a tagged value with an
// empty payload. Blank values are never transformed.
func (v Value) IsBlank() bool {
	switch v.kind {
	case ValuePlaintext:
		return strings.TrimSpace(v.text) == ""
	case ValueTagged:
		return v.encrypted.Payload() == ""
	default:
		return true
	}
}

// Stored returns the persisted string form: "" for Empty, the text for Plaintext and
// "enc:<kind>:<payload>" for Tagged.
func (v Value) Stored() string {
	switch v.kind {
	case ValuePlaintext:
		return v.text
	case ValueTagged:
		return v.encrypted.String()
	default:
		return ""
	}
}

// String implements fmt.Stringer with the stored form.
func (v Value) String() string { return v.Stored() }

// ParseStored is the inverse of Stored. Tagged results are marked encrypted and carry no
// cipher; the read path binds one.
func ParseStored(s string) Value {
	if s == "" {
		return Empty()
	}
	if ev, ok := cipherDomain.ParseEncryptedValue(s); ok {
		return Tagged(ev)
	}
	return Plaintext(s)
}

// MarshalJSON encodes the stored form as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Stored())
}

// UnmarshalJSON decodes a JSON string (or null) through ParseStored.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field value must be a JSON string: %w", err)
	}
	if s == nil {
		*v = Empty()
		return nil
	}
	*v = ParseStored(*s)
	return nil
}
