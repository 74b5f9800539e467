// Package usecase implements the transform gateway for transparent field encryption.
//
// The gateway is invoked by a host document at three lifecycle points:
//
//   - before save: EncodeForPersistence (or EncodeAll) turns plaintext into tagged ciphertext
//   - on read: DecodeForRead binds a cipher to stored ciphertext without decrypting it
//   - on validate: DecodeForValidation yields the plaintext view validators should see
//
// Transforms are idempotent. A value tagged as encrypted is never encrypted again, and
// blank values pass through untouched. The gateway never performs storage I/O and never
// mutates the registry it reads from.
//
// # Usage Example
//
//	registry := fieldDomain.NewRegistry()
//	_ = registry.Register("ssn", cipherDomain.KindSymmetric,
//	    fieldDomain.StaticOptions(map[string]any{"key": "k1"}))
//	registry.Seal()
//
//	gw := usecase.NewGateway(registry, cipherService.NewCipherManager(nil, nil), logger)
//	_ = gw.EncodeForPersistence(ctx, doc, "ssn")
//	v, _ := gw.DecodeForRead(ctx, doc, "ssn")
//	ev, _ := v.Encrypted()
//	plaintext, _ := ev.Decrypt(ctx)
package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// FieldRegistry is the read side of fieldDomain.Registry.
type FieldRegistry interface {
	Lookup(name string) (fieldDomain.FieldSpec, error)
	Fields() []string
}

// Gateway defines the field transform operations.
type Gateway interface {
	// EncodeForPersistence encrypts the field in place unless it is blank or already encrypted.
	EncodeForPersistence(ctx context.Context, rec fieldDomain.Record, field string) error

	// DecodeForRead returns the field bound to a cipher, without decrypting. Values that are
	// blank, plaintext, already bound, or belong to a new record are returned as-is.
	DecodeForRead(ctx context.Context, rec fieldDomain.Record, field string) (fieldDomain.Value, error)

	// DecodeForValidation returns the plaintext view of the field when it can be decrypted,
	// otherwise the raw value.
	DecodeForValidation(ctx context.Context, rec fieldDomain.Record, field string) (fieldDomain.Value, error)

	// EncodeAll encodes every registered field. Either every field is written or none is.
	EncodeAll(ctx context.Context, rec fieldDomain.Record) error

	// ValidateRecord runs rules against the plaintext view of each field. Unregistered fields
	// are validated as stored. Failures wrap errors.ErrInvalidInput.
	ValidateRecord(ctx context.Context, rec fieldDomain.Record, rules map[string][]validation.Rule) error
}
