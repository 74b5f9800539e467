package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/encryptor/internal/database"
	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	apperrors "github.com/allisson/encryptor/internal/errors"
)

// MySQLDocumentRepository implements document persistence for MySQL databases.
//
// Database schema requirements:
//   - id: BINARY(16) PRIMARY KEY (UUID in binary format)
//   - collection: VARCHAR(255)
//   - attributes: JSON
//   - created_at: DATETIME(6)
//   - updated_at: DATETIME(6)
//
// MySQL doesn't have a native UUID type, so UUIDs are stored as BINARY(16) using
// uuid.MarshalBinary() and uuid.UnmarshalBinary().
type MySQLDocumentRepository struct {
	db *sql.DB
}

// Upsert inserts the document or replaces the attributes of an existing one.
func (m *MySQLDocumentRepository) Upsert(ctx context.Context, doc *documentDomain.Document) error {
	querier := database.GetTx(ctx, m.db)

	id, err := doc.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}
	attributes, err := marshalAttributes(doc.Attributes())
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (id, collection, attributes, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE attributes = VALUES(attributes), updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(ctx, query, id, doc.Collection, attributes, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert document")
	}
	return nil
}

// Get retrieves a document by collection and id.
func (m *MySQLDocumentRepository) Get(
	ctx context.Context,
	collection string,
	id uuid.UUID,
) (*documentDomain.Document, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal document id")
	}

	query := `SELECT id, collection, attributes, created_at, updated_at
			  FROM documents WHERE id = ? AND collection = ?`

	var (
		rawID      []byte
		coll       string
		attributes []byte
		createdAt  time.Time
		updatedAt  time.Time
	)
	err = querier.QueryRowContext(ctx, query, idBytes, collection).
		Scan(&rawID, &coll, &attributes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, documentDomain.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get document")
	}

	var docID uuid.UUID
	if err := docID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal document id")
	}
	attrs, err := unmarshalAttributes(attributes)
	if err != nil {
		return nil, err
	}
	return documentDomain.LoadDocument(docID, coll, attrs, createdAt, updatedAt), nil
}

// Delete removes a document. Deleting a missing document returns ErrDocumentNotFound.
func (m *MySQLDocumentRepository) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND collection = ?`, idBytes, collection)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete document")
	}
	return checkAffected(result)
}

// NewMySQLDocumentRepository creates a new MySQL document repository.
func NewMySQLDocumentRepository(db *sql.DB) *MySQLDocumentRepository {
	return &MySQLDocumentRepository{db: db}
}
