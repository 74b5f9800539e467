package domain

import (
	"fmt"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// Deferred computes an option value from the owning record at transform time, for example
// a salt derived from the record id.
type Deferred func(rec Record) (any, error)

// Option is either a static value or a Deferred function.
type Option struct {
	value    any
	deferred Deferred
}

// Static wraps a fixed option value.
func Static(v any) Option {
	return Option{value: v}
}

// Defer wraps a function resolved against the record.
func Defer(fn Deferred) Option {
	return Option{deferred: fn}
}

// IsDeferred reports whether the option is resolved per record.
func (o Option) IsDeferred() bool { return o.deferred != nil }

// Resolve returns the concrete value for rec.
func (o Option) Resolve(rec Record) (any, error) {
	if o.deferred == nil {
		return o.value, nil
	}
	return o.deferred(rec)
}

// Options maps option names to static or deferred values.
type Options map[string]Option

// StaticOptions builds Options from plain values.
func StaticOptions(values map[string]any) Options {
	out := make(Options, len(values))
	for name, v := range values {
		out[name] = Static(v)
	}
	return out
}

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for name, opt := range o {
		out[name] = opt
	}
	return out
}

// Resolve substitutes every deferred option with its value for rec. Any failure wraps
// cipherDomain.ErrCipherConfiguration.
func (o Options) Resolve(rec Record) (cipherDomain.Options, error) {
	out := make(cipherDomain.Options, len(o))
	for name, opt := range o {
		v, err := opt.Resolve(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve option %q: %w", cipherDomain.ErrCipherConfiguration, name, err)
		}
		out[name] = v
	}
	return out, nil
}
