// Package errors defines the sentinel errors shared by every layer of the encryptor.
// Domain packages wrap these sentinels so callers can classify a failure with errors.Is
// without depending on the package that produced it.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a lookup for a field, record or key had no match.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates bad input, bad configuration or a caller contract violation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an unexpected failure in a collaborator (storage, KMS).
	ErrInternal = errors.New("internal error")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message and keeps err in the chain. Returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
