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

// PostgreSQLDocumentRepository implements document persistence for PostgreSQL databases.
//
// Database schema requirements:
//   - id: UUID PRIMARY KEY
//   - collection: TEXT
//   - attributes: JSONB
//   - created_at: TIMESTAMP WITH TIME ZONE
//   - updated_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLDocumentRepository struct {
	db *sql.DB
}

// Upsert inserts the document or replaces the attributes of an existing one.
func (p *PostgreSQLDocumentRepository) Upsert(ctx context.Context, doc *documentDomain.Document) error {
	querier := database.GetTx(ctx, p.db)

	attributes, err := marshalAttributes(doc.Attributes())
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (id, collection, attributes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE SET attributes = EXCLUDED.attributes, updated_at = EXCLUDED.updated_at`

	_, err = querier.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Collection,
		attributes,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert document")
	}
	return nil
}

// Get retrieves a document by collection and id.
func (p *PostgreSQLDocumentRepository) Get(
	ctx context.Context,
	collection string,
	id uuid.UUID,
) (*documentDomain.Document, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, collection, attributes, created_at, updated_at
			  FROM documents WHERE id = $1 AND collection = $2`

	var (
		docID      uuid.UUID
		coll       string
		attributes []byte
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := querier.QueryRowContext(ctx, query, id, collection).
		Scan(&docID, &coll, &attributes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, documentDomain.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get document")
	}

	attrs, err := unmarshalAttributes(attributes)
	if err != nil {
		return nil, err
	}
	return documentDomain.LoadDocument(docID, coll, attrs, createdAt, updatedAt), nil
}

// Delete removes a document. Deleting a missing document returns ErrDocumentNotFound.
func (p *PostgreSQLDocumentRepository) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND collection = $2`, id, collection)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete document")
	}
	return checkAffected(result)
}

// NewPostgreSQLDocumentRepository creates a new PostgreSQL document repository.
func NewPostgreSQLDocumentRepository(db *sql.DB) *PostgreSQLDocumentRepository {
	return &PostgreSQLDocumentRepository{db: db}
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return documentDomain.ErrDocumentNotFound
	}
	return nil
}
