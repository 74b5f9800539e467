package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	documentUsecase "github.com/allisson/encryptor/internal/document/usecase"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	appValidation "github.com/allisson/encryptor/internal/validation"
)

// DocumentUseCaseFactory builds a document use case for a sealed schema.
type DocumentUseCaseFactory func(schema *documentDomain.Schema) (documentUsecase.DocumentUseCase, error)

// SchemaInput describes an ad hoc schema assembled from command flags.
type SchemaInput struct {
	Collection string
	Fields     []string
	Encrypted  []string
	Kind       string
	Options    []string
}

// Validate checks the flags before a schema is assembled. The cipher kind is only checked
// when some field is encrypted.
func (in SchemaInput) Validate() error {
	name := []validation.Rule{appValidation.NotBlank, appValidation.NoWhitespace}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Collection, append([]validation.Rule{validation.Required}, name...)...),
		validation.Field(&in.Fields, validation.Each(name...)),
		validation.Field(&in.Encrypted, validation.Each(name...)),
		validation.Field(&in.Kind,
			validation.When(len(in.Encrypted) > 0, validation.Required, appValidation.CipherKind)),
	)
	return appValidation.WrapValidationError(err)
}

// buildSchema declares Fields and Encrypted and registers Encrypted with one cipher kind.
func buildSchema(in SchemaInput) (*documentDomain.Schema, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	schema := documentDomain.NewSchema(in.Collection).Field(in.Fields...)

	if len(in.Encrypted) > 0 {
		kind, err := cipherDomain.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		opts, err := parseOptions(in.Options)
		if err != nil {
			return nil, err
		}
		static := make(map[string]any, len(opts))
		for name, value := range opts {
			static[name] = value
		}
		for _, name := range in.Encrypted {
			schema.Encrypts(name, kind, fieldDomain.StaticOptions(static))
		}
	}
	if err := schema.Seal(); err != nil {
		return nil, err
	}
	return schema, nil
}

// RunSaveDocument creates a document from name=value pairs, encrypting the fields listed in
// the schema input, and writes its id and stored attributes.
//
// Requirements: Database must be migrated.
func RunSaveDocument(
	ctx context.Context,
	newUseCase DocumentUseCaseFactory,
	logger *slog.Logger,
	writer io.Writer,
	in SchemaInput,
	values []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	attrs, err := parseAssignments("set", values)
	if err != nil {
		return err
	}
	in.Fields = slices.Clone(in.Fields)
	for name := range attrs {
		if !slices.Contains(in.Fields, name) && !slices.Contains(in.Encrypted, name) {
			in.Fields = append(in.Fields, name)
		}
	}
	slices.Sort(in.Fields)

	schema, err := buildSchema(in)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	useCase, err := newUseCase(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize document use case: %w", err)
	}

	doc := documentDomain.NewDocument(in.Collection)
	for name, value := range attrs {
		doc.Set(name, value)
	}

	if err := useCase.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	if err := outputDocument(doc, doc.Attributes(), writer, format); err != nil {
		return err
	}

	logger.Info("document saved",
		slog.String("id", doc.ID.String()),
		slog.String("collection", doc.Collection),
	)
	return nil
}

// RunReadDocument loads a document and writes every declared field through the read path,
// so reversible fields come back as plaintext.
func RunReadDocument(
	ctx context.Context,
	newUseCase DocumentUseCaseFactory,
	logger *slog.Logger,
	writer io.Writer,
	in SchemaInput,
	id string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}

	schema, err := buildSchema(in)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	useCase, err := newUseCase(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize document use case: %w", err)
	}

	doc, err := useCase.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	values := make(map[string]fieldDomain.Value)
	for _, name := range schema.Fields() {
		v, err := useCase.Read(ctx, doc, name)
		if err != nil {
			return fmt.Errorf("failed to read field %q: %w", name, err)
		}
		if !v.IsEmpty() {
			values[name] = v
		}
	}

	if err := outputDocument(doc, values, writer, format); err != nil {
		return err
	}

	logger.Info("document read",
		slog.String("id", doc.ID.String()),
		slog.String("collection", doc.Collection),
	)
	return nil
}

func outputDocument(
	doc *documentDomain.Document,
	values map[string]fieldDomain.Value,
	writer io.Writer,
	format string,
) error {
	if format == "json" {
		return outputJSON(map[string]any{
			"id":         doc.ID.String(),
			"collection": doc.Collection,
			"attributes": values,
		}, writer)
	}

	_, _ = fmt.Fprintf(writer, "Document ID: %s\n", doc.ID.String())
	_, _ = fmt.Fprintf(writer, "Collection: %s\n", doc.Collection)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(writer, "%s: %s\n", name, values[name].Stored())
	}
	return nil
}
