package domain

import (
	"github.com/allisson/encryptor/internal/errors"
)

var (
	// ErrCipherConfiguration indicates deferred option resolution or cipher construction failed,
	// for example missing or malformed key material. It aborts the enclosing encode or decode.
	ErrCipherConfiguration = errors.Wrap(errors.ErrInvalidInput, "cipher configuration error")

	// ErrUnsupportedKind indicates an unknown cipher kind.
	ErrUnsupportedKind = errors.Wrap(ErrCipherConfiguration, "unsupported cipher kind")

	// ErrUnsupportedAlgorithm indicates an unknown symmetric algorithm.
	ErrUnsupportedAlgorithm = errors.Wrap(ErrCipherConfiguration, "unsupported algorithm")

	// ErrMissingOption indicates a required cipher option was not provided.
	ErrMissingOption = errors.Wrap(ErrCipherConfiguration, "missing option")

	// ErrInvalidOption indicates an option had the wrong type or an unusable value.
	ErrInvalidOption = errors.Wrap(ErrCipherConfiguration, "invalid option")

	// ErrInvalidKeySize indicates decoded key material has the wrong length.
	ErrInvalidKeySize = errors.Wrap(ErrCipherConfiguration, "invalid key size")

	// ErrDecryptionUnsupported indicates Decrypt was called on a value whose cipher cannot
	// reverse it (one-way kinds, encrypt-only key pairs, or no bound cipher at all).
	// Callers must check CanDecrypt first.
	ErrDecryptionUnsupported = errors.Wrap(errors.ErrInvalidInput, "decryption unsupported")

	// ErrDecryptionFailed indicates the payload could not be opened: wrong key, tampered
	// ciphertext or a malformed payload. The cause is not disclosed further.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
