package domain

import (
	"fmt"

	"github.com/allisson/encryptor/internal/errors"
)

var (
	// ErrFieldNotRegistered indicates a transform was invoked for a field with no FieldSpec.
	// This is a programmer error: the schema and the caller disagree.
	ErrFieldNotRegistered = errors.Wrap(errors.ErrNotFound, "field not registered")

	// ErrRegistrySealed indicates a registration was attempted after Seal.
	ErrRegistrySealed = errors.Wrap(errors.ErrConflict, "registry is sealed")

	// ErrEmptyFieldName indicates a registration with an empty field name.
	ErrEmptyFieldName = errors.Wrap(errors.ErrInvalidInput, "field name is empty")
)

// LookupError is returned by Registry.Lookup on a miss. It unwraps to ErrFieldNotRegistered.
type LookupError struct {
	Field string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, ErrFieldNotRegistered)
}

func (e *LookupError) Unwrap() error {
	return ErrFieldNotRegistered
}
