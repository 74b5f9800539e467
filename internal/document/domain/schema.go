package domain

import (
	"fmt"
	"slices"

	validation "github.com/jellydator/validation"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// Schema declares the fields of a collection, which of them are encrypted and the
// validation rules applied to their plaintext view.
//
// Declarations chain; the first error is kept and returned by Err and Seal:
//
//	schema := domain.NewSchema("customers").
//	    Field("id", "name", "email").
//	    Encrypts("ssn", cipherDomain.KindSymmetric, opts).
//	    Validate("email", validation.Required, appValidation.Email)
//	if err := schema.Seal(); err != nil { ... }
type Schema struct {
	collection string
	fields     []string
	registry   *fieldDomain.Registry
	rules      map[string][]validation.Rule
	sealed     bool
	err        error
}

// NewSchema creates an empty schema for collection.
func NewSchema(collection string) *Schema {
	s := &Schema{
		collection: collection,
		registry:   fieldDomain.NewRegistry(),
		rules:      make(map[string][]validation.Rule),
	}
	if collection == "" {
		s.err = ErrEmptyCollection
	}
	return s
}

func (s *Schema) fail(err error) *Schema {
	if s.err == nil {
		s.err = err
	}
	return s
}

func (s *Schema) writable() bool {
	if s.sealed {
		s.fail(ErrSchemaSealed)
		return false
	}
	return s.err == nil
}

// Field declares plain fields.
func (s *Schema) Field(names ...string) *Schema {
	if !s.writable() {
		return s
	}
	for _, name := range names {
		if name == "" {
			return s.fail(fieldDomain.ErrEmptyFieldName)
		}
		if !slices.Contains(s.fields, name) {
			s.fields = append(s.fields, name)
		}
	}
	return s
}

// Encrypts declares field and registers it for encryption.
func (s *Schema) Encrypts(field string, kind cipherDomain.Kind, opts fieldDomain.Options) *Schema {
	s.Field(field)
	if !s.writable() {
		return s
	}
	if err := s.registry.Register(field, kind, opts); err != nil {
		return s.fail(fmt.Errorf("encrypts %q: %w", field, err))
	}
	return s
}

// EncryptsAll registers every field declared so far, except exclude, for encryption.
func (s *Schema) EncryptsAll(kind cipherDomain.Kind, opts fieldDomain.Options, exclude ...string) *Schema {
	if !s.writable() {
		return s
	}
	if _, err := s.registry.RegisterAuto(s.fields, exclude, kind, opts); err != nil {
		return s.fail(fmt.Errorf("encrypts all: %w", err))
	}
	return s
}

// Encrypted runs declare and registers every field it declares, plus extra, for encryption.
func (s *Schema) Encrypted(
	kind cipherDomain.Kind,
	opts fieldDomain.Options,
	declare func(*Schema),
	extra ...string,
) *Schema {
	if !s.writable() {
		return s
	}
	before := len(s.fields)
	if declare != nil {
		declare(s)
	}
	s.Field(extra...)
	if !s.writable() {
		return s
	}

	names := slices.Clone(s.fields[before:])
	for _, name := range extra {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if _, err := s.registry.RegisterAuto(names, nil, kind, opts); err != nil {
		return s.fail(fmt.Errorf("encrypted block: %w", err))
	}
	return s
}

// Validate adds rules for field. They run against its plaintext view.
func (s *Schema) Validate(field string, rules ...validation.Rule) *Schema {
	if !s.writable() {
		return s
	}
	if !slices.Contains(s.fields, field) {
		return s.fail(fmt.Errorf("%w: validate %q", ErrUndeclaredField, field))
	}
	s.rules[field] = append(s.rules[field], rules...)
	return s
}

// Err returns the first declaration error.
func (s *Schema) Err() error { return s.err }

// Seal freezes the schema and its registry. It returns the first declaration error, in
// which case the schema stays unsealed.
func (s *Schema) Seal() error {
	if s.err != nil || s.sealed {
		return s.err
	}
	s.sealed = true
	s.registry.Seal()
	return nil
}

// Sealed reports whether Seal succeeded.
func (s *Schema) Sealed() bool { return s.sealed }

// Collection returns the collection name.
func (s *Schema) Collection() string { return s.collection }

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string { return slices.Clone(s.fields) }

// IsDeclared reports whether name is a declared field.
func (s *Schema) IsDeclared(name string) bool { return slices.Contains(s.fields, name) }

// IsEncrypted reports whether name is registered for encryption.
func (s *Schema) IsEncrypted(name string) bool { return s.registry.IsRegistered(name) }

// Registry returns the field registry backing the schema.
func (s *Schema) Registry() *fieldDomain.Registry { return s.registry }

// Rules returns the validation rules by field.
func (s *Schema) Rules() map[string][]validation.Rule {
	out := make(map[string][]validation.Rule, len(s.rules))
	for name, rules := range s.rules {
		out[name] = slices.Clone(rules)
	}
	return out
}

// CheckDocument verifies doc belongs to the collection and carries only declared fields.
func (s *Schema) CheckDocument(doc *Document) error {
	if doc.Collection != s.collection {
		return fmt.Errorf("%w: document %q, schema %q", ErrCollectionMismatch, doc.Collection, s.collection)
	}
	for _, name := range doc.AttributeNames() {
		if !s.IsDeclared(name) {
			return fmt.Errorf("%w: %q", ErrUndeclaredField, name)
		}
	}
	return nil
}
