package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Option names understood by the built-in cipher kinds.
const (
	OptionKey        = "key"
	OptionSalt       = "salt"
	OptionAlgorithm  = "algorithm"
	OptionKDF        = "kdf"
	OptionAAD        = "aad"
	OptionPublicKey  = "public_key"
	OptionPrivateKey = "private_key"
	OptionPolicy     = "policy"
	OptionKeyURI     = "key_uri"
)

// Options holds concrete option values for one cipher instance. Deferred values have
// already been resolved against a record by the time a cipher sees them.
//
// Values may be strings, byte slices or anything implementing fmt.Stringer (uuid.UUID,
// for instance, when a salt is derived from a record id).
type Options map[string]any

// Has reports whether name is set to a non-nil value.
func (o Options) Has(name string) bool {
	v, ok := o[name]
	return ok && v != nil
}

// String returns the option as a string, or def when it is unset.
func (o Options) String(name, def string) (string, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, name, v)
	}
}

// RequiredString is String for options without a default. Unset or empty values return
// ErrMissingOption.
func (o Options) RequiredString(name string) (string, error) {
	s, err := o.String(name, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingOption, name)
	}
	return s, nil
}

// Bytes returns the option as raw bytes, or nil when it is unset.
func (o Options) Bytes(name string) ([]byte, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}
	s, err := o.String(name, "")
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Fingerprint returns a stable SHA-256 digest of the options. Two option sets with equal
// names and values share a fingerprint. Key material never appears in the output.
func (o Options) Fingerprint() string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%d:%s=", len(name), name)
		switch v := o[name].(type) {
		case []byte:
			fmt.Fprintf(h, "b%d:", len(v))
			h.Write(v)
		case string:
			fmt.Fprintf(h, "s%d:%s", len(v), v)
		case fmt.Stringer:
			s := v.String()
			fmt.Fprintf(h, "s%d:%s", len(s), s)
		default:
			s := fmt.Sprintf("%T:%v", v, v)
			fmt.Fprintf(h, "v%d:%s", len(s), s)
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
