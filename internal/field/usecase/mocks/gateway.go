// Package mocks provides mock implementations of the field gateway for testing.
package mocks

import (
	"context"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/mock"

	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// MockGateway is a mock implementation of usecase.Gateway.
type MockGateway struct {
	mock.Mock
}

// EncodeForPersistence mocks the EncodeForPersistence method of Gateway.
func (m *MockGateway) EncodeForPersistence(ctx context.Context, rec fieldDomain.Record, field string) error {
	args := m.Called(ctx, rec, field)
	return args.Error(0)
}

// DecodeForRead mocks the DecodeForRead method of Gateway.
func (m *MockGateway) DecodeForRead(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	args := m.Called(ctx, rec, field)
	return args.Get(0).(fieldDomain.Value), args.Error(1)
}

// DecodeForValidation mocks the DecodeForValidation method of Gateway.
func (m *MockGateway) DecodeForValidation(
	ctx context.Context,
	rec fieldDomain.Record,
	field string,
) (fieldDomain.Value, error) {
	args := m.Called(ctx, rec, field)
	return args.Get(0).(fieldDomain.Value), args.Error(1)
}

// EncodeAll mocks the EncodeAll method of Gateway.
func (m *MockGateway) EncodeAll(ctx context.Context, rec fieldDomain.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// ValidateRecord mocks the ValidateRecord method of Gateway.
func (m *MockGateway) ValidateRecord(
	ctx context.Context,
	rec fieldDomain.Record,
	rules map[string][]validation.Rule,
) error {
	args := m.Called(ctx, rec, rules)
	return args.Error(0)
}
