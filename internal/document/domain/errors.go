package domain

import (
	"github.com/allisson/encryptor/internal/errors"
)

var (
	// ErrDocumentNotFound indicates no document exists with the given id in the collection.
	ErrDocumentNotFound = errors.Wrap(errors.ErrNotFound, "document not found")

	// ErrUndeclaredField indicates a document carries or requests a field its schema does
	// not declare.
	ErrUndeclaredField = errors.Wrap(errors.ErrInvalidInput, "undeclared field")

	// ErrCollectionMismatch indicates a document was handed to a schema for another collection.
	ErrCollectionMismatch = errors.Wrap(errors.ErrInvalidInput, "collection mismatch")

	// ErrEmptyCollection indicates a schema or document without a collection name.
	ErrEmptyCollection = errors.Wrap(errors.ErrInvalidInput, "collection name is empty")

	// ErrSchemaSealed indicates a declaration was attempted after Seal.
	ErrSchemaSealed = errors.Wrap(errors.ErrConflict, "schema is sealed")
)
