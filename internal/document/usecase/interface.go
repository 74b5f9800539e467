// Package usecase implements the reference document host on top of the field gateway.
//
// A DocumentUseCase is bound to one Schema. Save validates the plaintext view of every
// field, encrypts the registered fields and upserts the document in a transaction. Reads
// bind ciphers to stored ciphertext and decrypt on demand.
//
// # Usage Example
//
//	schema := documentDomain.NewSchema("customers").
//	    Field("name").
//	    Encrypts("ssn", cipherDomain.KindSymmetric, opts)
//	_ = schema.Seal()
//
//	uc, _ := container.DocumentUseCase(schema)
//	doc := documentDomain.NewDocument("customers")
//	doc.Set("ssn", "123-45-6789")
//	_ = uc.Save(ctx, doc)
//
//	loaded, _ := uc.Get(ctx, doc.ID)
//	ssn, _ := uc.Read(ctx, loaded, "ssn") // Plaintext("123-45-6789")
package usecase

import (
	"context"

	"github.com/google/uuid"

	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// DocumentRepository defines the interface for document persistence.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *documentDomain.Document) error
	Get(ctx context.Context, collection string, id uuid.UUID) (*documentDomain.Document, error)
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}

// DocumentUseCase defines the document lifecycle operations for one schema.
type DocumentUseCase interface {
	// Save validates, encrypts and persists doc, then marks it persisted.
	Save(ctx context.Context, doc *documentDomain.Document) error

	// Get loads a document of the schema's collection.
	Get(ctx context.Context, id uuid.UUID) (*documentDomain.Document, error)

	// Delete removes a document of the schema's collection.
	Delete(ctx context.Context, id uuid.UUID) error

	// Read returns the plaintext of field when its cipher can decrypt, otherwise the raw value.
	Read(ctx context.Context, doc *documentDomain.Document, field string) (fieldDomain.Value, error)

	// ReadForValidation returns the value validators see for field.
	ReadForValidation(ctx context.Context, doc *documentDomain.Document, field string) (fieldDomain.Value, error)
}
