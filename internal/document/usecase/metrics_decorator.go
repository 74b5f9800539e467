package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	"github.com/allisson/encryptor/internal/metrics"
)

// documentUseCaseWithMetrics decorates DocumentUseCase with metrics instrumentation.
type documentUseCaseWithMetrics struct {
	next    DocumentUseCase
	metrics metrics.BusinessMetrics
}

// NewDocumentUseCaseWithMetrics wraps a DocumentUseCase with metrics recording.
func NewDocumentUseCaseWithMetrics(useCase DocumentUseCase, m metrics.BusinessMetrics) DocumentUseCase {
	return &documentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Save records metrics for document saves.
func (d *documentUseCaseWithMetrics) Save(ctx context.Context, doc *documentDomain.Document) error {
	start := time.Now()
	err := d.next.Save(ctx, doc)
	metrics.Observe(ctx, d.metrics, metrics.DomainDocument, "document_save", start, err)
	return err
}

// Get records metrics for document loads.
func (d *documentUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*documentDomain.Document, error) {
	start := time.Now()
	doc, err := d.next.Get(ctx, id)
	metrics.Observe(ctx, d.metrics, metrics.DomainDocument, "document_get", start, err)
	return doc, err
}

// Delete records metrics for document deletes.
func (d *documentUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := d.next.Delete(ctx, id)
	metrics.Observe(ctx, d.metrics, metrics.DomainDocument, "document_delete", start, err)
	return err
}

// Read records metrics for field reads.
func (d *documentUseCaseWithMetrics) Read(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	start := time.Now()
	v, err := d.next.Read(ctx, doc, field)
	metrics.Observe(ctx, d.metrics, metrics.DomainDocument, "document_read", start, err)
	return v, err
}

// ReadForValidation records metrics for validation reads.
func (d *documentUseCaseWithMetrics) ReadForValidation(
	ctx context.Context,
	doc *documentDomain.Document,
	field string,
) (fieldDomain.Value, error) {
	start := time.Now()
	v, err := d.next.ReadForValidation(ctx, doc, field)
	metrics.Observe(ctx, d.metrics, metrics.DomainDocument, "document_read_validation", start, err)
	return v, err
}
