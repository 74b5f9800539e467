package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	validation "github.com/jellydator/validation"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	cipherService "github.com/allisson/encryptor/internal/cipher/service"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	appValidation "github.com/allisson/encryptor/internal/validation"
)

// gateway implements Gateway on top of a field registry and a cipher factory.
//
// Cipher instances are resolved per call: deferred options are evaluated against the
// record each time, so two records may encrypt the same field with different salts.
// Wrap the factory with cipherService.NewCachedCipherFactory to reuse option-equal
// instances.
type gateway struct {
	registry FieldRegistry
	ciphers  cipherService.CipherFactory
	logger   *slog.Logger
}

// NewGateway creates a Gateway.
func NewGateway(registry FieldRegistry, ciphers cipherService.CipherFactory, logger *slog.Logger) Gateway {
	return &gateway{
		registry: registry,
		ciphers:  ciphers,
		logger:   logger,
	}
}

// cipherFor builds the cipher for spec with options resolved against rec.
func (g *gateway) cipherFor(
	ctx context.Context,
	rec fieldDomain.Record,
	spec fieldDomain.FieldSpec,
) (cipherDomain.Cipher, error) {
	opts, err := spec.Options.Resolve(rec)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	c, err := g.ciphers.CreateCipher(ctx, spec.Kind, opts)
	if err != nil {
		if !errors.Is(err, cipherDomain.ErrCipherConfiguration) {
			err = fmt.Errorf("%w: %w", cipherDomain.ErrCipherConfiguration, err)
		}
		return nil, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	return c, nil
}

// encode returns the tagged, bound form of v, or ok=false when v is left as-is.
func (g *gateway) encode(
	ctx context.Context,
	rec fieldDomain.Record,
	spec fieldDomain.FieldSpec,
	v fieldDomain.Value,
) (encoded fieldDomain.Value, ok bool, err error) {
	if v.IsBlank() || v.IsEncrypted() {
		return v, false, nil
	}

	plaintext, isText := v.Text()
	if !isText {
		ev, _ := v.Encrypted()
		plaintext = ev.Payload()
	}

	c, err := g.cipherFor(ctx, rec, spec)
	if err != nil {
		return fieldDomain.Value{}, false, err
	}
	ev, err := c.Encrypt(ctx, plaintext)
	if err != nil {
		return fieldDomain.Value{}, false, fmt.Errorf("field %q: failed to encrypt: %w", spec.Name, err)
	}

	g.logger.DebugContext(ctx, "field encoded",
		slog.String("field", spec.Name),
		slog.String("kind", spec.Kind.String()))

	return fieldDomain.Tagged(ev.WithCipher(c)), true, nil
}

// EncodeForPersistence encrypts the field and writes it back onto rec.
func (g *gateway) EncodeForPersistence(ctx context.Context, rec fieldDomain.Record, field string) error {
	spec, err := g.registry.Lookup(field)
	if err != nil {
		return err
	}

	encoded, ok, err := g.encode(ctx, rec, spec, rec.Attribute(field))
	if err != nil || !ok {
		return err
	}
	rec.SetAttribute(field, encoded)
	return nil
}

// DecodeForRead binds a freshly resolved cipher to stored ciphertext. The binding is kept
// on the record so later reads reuse it.
func (g *gateway) DecodeForRead(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	spec, err := g.registry.Lookup(field)
	if err != nil {
		return fieldDomain.Value{}, err
	}

	v := rec.Attribute(field)
	ev, tagged := v.Encrypted()
	if v.IsBlank() || !tagged || ev.HasCipher() || rec.IsNewRecord() {
		return v, nil
	}

	c, err := g.cipherFor(ctx, rec, spec)
	if err != nil {
		return fieldDomain.Value{}, err
	}
	bound := fieldDomain.Tagged(ev.WithCipher(c))
	rec.SetAttribute(field, bound)
	return bound, nil
}

// DecodeForValidation decrypts the read view of the field when its cipher allows it.
func (g *gateway) DecodeForValidation(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	v, err := g.DecodeForRead(ctx, rec, field)
	if err != nil {
		return fieldDomain.Value{}, err
	}

	ev, tagged := v.Encrypted()
	if !tagged || !ev.CanDecrypt() {
		return v, nil
	}
	plaintext, err := ev.Decrypt(ctx)
	if err != nil {
		return fieldDomain.Value{}, fmt.Errorf("field %q: %w", field, err)
	}
	return fieldDomain.Plaintext(plaintext), nil
}

// EncodeAll stages the encoding of every registered field and applies the results only
// after all of them succeed.
func (g *gateway) EncodeAll(ctx context.Context, rec fieldDomain.Record) error {
	type staged struct {
		field string
		value fieldDomain.Value
	}

	fields := g.registry.Fields()
	pending := make([]staged, 0, len(fields))
	for _, field := range fields {
		spec, err := g.registry.Lookup(field)
		if err != nil {
			return err
		}
		encoded, ok, err := g.encode(ctx, rec, spec, rec.Attribute(field))
		if err != nil {
			return err
		}
		if ok {
			pending = append(pending, staged{field: field, value: encoded})
		}
	}

	for _, s := range pending {
		rec.SetAttribute(s.field, s.value)
	}
	return nil
}

// ValidateRecord validates the plaintext view of each field named in rules.
func (g *gateway) ValidateRecord(
	ctx context.Context,
	rec fieldDomain.Record,
	rules map[string][]validation.Rule,
) error {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := validation.Errors{}
	for _, name := range names {
		v := rec.Attribute(name)
		if _, err := g.registry.Lookup(name); err == nil {
			if v, err = g.DecodeForValidation(ctx, rec, name); err != nil {
				return err
			}
		}
		errs[name] = validation.ValidateWithContext(ctx, validationInput(v), rules[name]...)
	}

	return appValidation.WrapValidationError(errs.Filter())
}

// validationInput is the value handed to validation rules: the text for plaintext, the
// stored form for ciphertext that could not be decrypted and "" when empty.
func validationInput(v fieldDomain.Value) string {
	if text, ok := v.Text(); ok {
		return text
	}
	return v.Stored()
}
