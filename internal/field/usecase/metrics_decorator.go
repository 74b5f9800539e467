package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	"github.com/allisson/encryptor/internal/metrics"
)

// gatewayWithMetrics decorates Gateway with metrics instrumentation.
type gatewayWithMetrics struct {
	next    Gateway
	metrics metrics.BusinessMetrics
}

// NewGatewayWithMetrics wraps a Gateway with metrics recording.
func NewGatewayWithMetrics(gw Gateway, m metrics.BusinessMetrics) Gateway {
	return &gatewayWithMetrics{
		next:    gw,
		metrics: m,
	}
}

// EncodeForPersistence records metrics for field encode operations.
func (g *gatewayWithMetrics) EncodeForPersistence(ctx context.Context, rec fieldDomain.Record, field string) error {
	start := time.Now()
	err := g.next.EncodeForPersistence(ctx, rec, field)
	metrics.Observe(ctx, g.metrics, metrics.DomainField, "field_encode", start, err)
	return err
}

// DecodeForRead records metrics for field read operations.
func (g *gatewayWithMetrics) DecodeForRead(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	start := time.Now()
	v, err := g.next.DecodeForRead(ctx, rec, field)
	metrics.Observe(ctx, g.metrics, metrics.DomainField, "field_decode_read", start, err)
	return v, err
}

// DecodeForValidation records metrics for validation-time decrypts.
func (g *gatewayWithMetrics) DecodeForValidation(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	start := time.Now()
	v, err := g.next.DecodeForValidation(ctx, rec, field)
	metrics.Observe(ctx, g.metrics, metrics.DomainField, "field_decode_validation", start, err)
	return v, err
}

// EncodeAll records metrics for whole-record encodes.
func (g *gatewayWithMetrics) EncodeAll(ctx context.Context, rec fieldDomain.Record) error {
	start := time.Now()
	err := g.next.EncodeAll(ctx, rec)
	metrics.Observe(ctx, g.metrics, metrics.DomainField, "field_encode_all", start, err)
	return err
}

// ValidateRecord records metrics for record validation.
func (g *gatewayWithMetrics) ValidateRecord(
	ctx context.Context,
	rec fieldDomain.Record,
	rules map[string][]validation.Rule,
) error {
	start := time.Now()
	err := g.next.ValidateRecord(ctx, rec, rules)
	metrics.Observe(ctx, g.metrics, metrics.DomainField, "field_validate", start, err)
	return err
}
