package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/encryptor/internal/database"
	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	fieldUsecase "github.com/allisson/encryptor/internal/field/usecase"
)

// documentUseCase implements DocumentUseCase for a sealed schema.
type documentUseCase struct {
	schema     *documentDomain.Schema
	gateway    fieldUsecase.Gateway
	txManager  database.TxManager
	repository DocumentRepository
	logger     *slog.Logger
}

// NewDocumentUseCase creates a DocumentUseCase. The schema must be sealed; the gateway must
// be built on the schema's registry.
func NewDocumentUseCase(
	schema *documentDomain.Schema,
	gateway fieldUsecase.Gateway,
	txManager database.TxManager,
	repository DocumentRepository,
	logger *slog.Logger,
) (DocumentUseCase, error) {
	if err := schema.Err(); err != nil {
		return nil, err
	}
	if !schema.Sealed() {
		return nil, fmt.Errorf("schema %q must be sealed before use", schema.Collection())
	}
	return &documentUseCase{
		schema:     schema,
		gateway:    gateway,
		txManager:  txManager,
		repository: repository,
		logger:     logger,
	}, nil
}

// Save runs validation on the plaintext view, encodes every registered field and upserts
// the document. A failed encode leaves the document unchanged.
func (d *documentUseCase) Save(ctx context.Context, doc *documentDomain.Document) error {
	if err := d.schema.CheckDocument(doc); err != nil {
		return err
	}
	if err := d.gateway.ValidateRecord(ctx, doc, d.schema.Rules()); err != nil {
		return err
	}
	if err := d.gateway.EncodeAll(ctx, doc); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt, updatedAt := doc.CreatedAt, doc.UpdatedAt
	if doc.IsNewRecord() && doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	err := d.txManager.WithTx(ctx, func(ctx context.Context) error {
		return d.repository.Upsert(ctx, doc)
	})
	if err != nil {
		doc.CreatedAt, doc.UpdatedAt = createdAt, updatedAt
		return err
	}
	doc.MarkPersisted()

	d.logger.DebugContext(ctx, "document saved",
		slog.String("collection", doc.Collection),
		slog.String("id", doc.ID.String()))
	return nil
}

// Get loads a document.
func (d *documentUseCase) Get(ctx context.Context, id uuid.UUID) (*documentDomain.Document, error) {
	return d.repository.Get(ctx, d.schema.Collection(), id)
}

// Delete removes a document.
func (d *documentUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return d.txManager.WithTx(ctx, func(ctx context.Context) error {
		return d.repository.Delete(ctx, d.schema.Collection(), id)
	})
}

func (d *documentUseCase) checkField(doc *documentDomain.Document, field string) error {
	if doc.Collection != d.schema.Collection() {
		return fmt.Errorf("%w: document %q, schema %q",
			documentDomain.ErrCollectionMismatch, doc.Collection, d.schema.Collection())
	}
	if !d.schema.IsDeclared(field) {
		return fmt.Errorf("%w: %q", documentDomain.ErrUndeclaredField, field)
	}
	return nil
}

// Read binds the field's cipher and decrypts when possible. One-way values are returned as
// tagged ciphertext.
func (d *documentUseCase) Read(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	if err := d.checkField(doc, field); err != nil {
		return fieldDomain.Value{}, err
	}
	if !d.schema.IsEncrypted(field) {
		return doc.Attribute(field), nil
	}

	v, err := d.gateway.DecodeForRead(ctx, doc, field)
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

// ReadForValidation returns the validation view of field.
func (d *documentUseCase) ReadForValidation(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	if err := d.checkField(doc, field); err != nil {
		return fieldDomain.Value{}, err
	}
	if !d.schema.IsEncrypted(field) {
		return doc.Attribute(field), nil
	}
	return d.gateway.DecodeForValidation(ctx, doc, field)
}
