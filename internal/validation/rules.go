// Package validation provides custom validation rules for document fields and CLI input.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	apperrors "github.com/allisson/encryptor/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) == s
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NotCiphertext rejects values in the stored ciphertext form ("enc:<kind>:<payload>").
// Fields validated on their plaintext view only see that form when the cipher is one-way
// or the value was assigned as ciphertext directly.
var NotCiphertext = validation.NewStringRuleWithError(
	func(s string) bool {
		_, ok := cipherDomain.ParseEncryptedValue(s)
		return !ok
	},
	validation.NewError("validation_not_ciphertext", "must not be ciphertext"),
)

// CipherKind validates that a string names a supported cipher kind.
var CipherKind = validation.NewStringRuleWithError(
	func(s string) bool {
		return cipherDomain.Kind(s).IsValid()
	},
	validation.NewError("validation_cipher_kind", "must be a supported cipher kind"),
)
