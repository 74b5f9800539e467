// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	validation "github.com/jellydator/validation"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	appValidation "github.com/allisson/encryptor/internal/validation"
)

// asymmetricKeySize is the decoded size of NaCl box keys.
const asymmetricKeySize = 32

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseAssignments converts "name=value" pairs into a map. Later pairs win.
func parseAssignments(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected name=value", flag, pair)
		}
		out[name] = value
	}
	return out, nil
}

// parseOptions converts --option flags into cipher options. Key material given on the
// command line is checked before any cipher is built.
func parseOptions(pairs []string) (cipherDomain.Options, error) {
	assignments, err := parseAssignments("option", pairs)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	if key, ok := assignments[cipherDomain.OptionKey]; ok {
		errs[cipherDomain.OptionKey] = validation.Validate(key, appValidation.NotBlank)
	}
	for _, name := range []string{cipherDomain.OptionPublicKey, cipherDomain.OptionPrivateKey} {
		if v, ok := assignments[name]; ok {
			errs[name] = validation.Validate(v, validation.Required, appValidation.Base64Key(asymmetricKeySize))
		}
	}
	if err := appValidation.WrapValidationError(errs.Filter()); err != nil {
		return nil, err
	}

	opts := make(cipherDomain.Options, len(assignments))
	for name, value := range assignments {
		opts[name] = value
	}
	return opts, nil
}

// validateFormat rejects unknown output formats.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// outputJSON writes v as indented JSON for machine consumption.
func outputJSON(v any, writer io.Writer) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
