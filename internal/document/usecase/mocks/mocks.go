// Package mocks provides mock implementations of the document use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// MockDocumentRepository is a mock implementation of usecase.DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of DocumentRepository.
func (m *MockDocumentRepository) Upsert(ctx context.Context, doc *documentDomain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Get mocks the Get method of DocumentRepository.
func (m *MockDocumentRepository) Get(
	ctx context.Context,
	collection string,
	id uuid.UUID,
) (*documentDomain.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentDomain.Document), args.Error(1)
}

// Delete mocks the Delete method of DocumentRepository.
func (m *MockDocumentRepository) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// MockDocumentUseCase is a mock implementation of usecase.DocumentUseCase.
type MockDocumentUseCase struct {
	mock.Mock
}

// Save mocks the Save method of DocumentUseCase.
func (m *MockDocumentUseCase) Save(ctx context.Context, doc *documentDomain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Get mocks the Get method of DocumentUseCase.
func (m *MockDocumentUseCase) Get(ctx context.Context, id uuid.UUID) (*documentDomain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentDomain.Document), args.Error(1)
}

// Delete mocks the Delete method of DocumentUseCase.
func (m *MockDocumentUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Read mocks the Read method of DocumentUseCase.
func (m *MockDocumentUseCase) Read(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	args := m.Called(ctx, doc, field)
	return args.Get(0).(fieldDomain.Value), args.Error(1)
}

// ReadForValidation mocks the ReadForValidation method of DocumentUseCase.
func (m *MockDocumentUseCase) ReadForValidation(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	args := m.Called(ctx, doc, field)
	return args.Get(0).(fieldDomain.Value), args.Error(1)
}
