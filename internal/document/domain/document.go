// Package domain defines the reference document host: a schemaless record of string
// attributes whose encrypted fields are declared on a Schema.
package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

// Document is a record in a collection. Attribute values are fieldDomain.Value, so an
// attribute holds plaintext until it is encoded and tagged ciphertext afterwards.
//
// A Document built with NewDocument is new until it is saved; LoadDocument builds one that
// came from storage.
type Document struct {
	ID         uuid.UUID
	Collection string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	attributes map[string]fieldDomain.Value
	persisted  bool
}

// NewDocument creates an unsaved document with a UUIDv7 id.
func NewDocument(collection string) *Document {
	return &Document{
		ID:         uuid.Must(uuid.NewV7()),
		Collection: collection,
		attributes: make(map[string]fieldDomain.Value),
	}
}

// LoadDocument rebuilds a persisted document from storage.
func LoadDocument(
	id uuid.UUID,
	collection string,
	attributes map[string]fieldDomain.Value,
	createdAt, updatedAt time.Time,
) *Document {
	attrs := make(map[string]fieldDomain.Value, len(attributes))
	maps.Copy(attrs, attributes)
	return &Document{
		ID:         id,
		Collection: collection,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		attributes: attrs,
		persisted:  true,
	}
}

// Attribute returns the value of name, or Empty when unset.
func (d *Document) Attribute(name string) fieldDomain.Value {
	return d.attributes[name]
}

// SetAttribute replaces the value of name.
func (d *Document) SetAttribute(name string, value fieldDomain.Value) {
	if d.attributes == nil {
		d.attributes = make(map[string]fieldDomain.Value)
	}
	d.attributes[name] = value
}

// Set assigns a plaintext value, the way application code writes a field.
func (d *Document) Set(name, plaintext string) {
	d.SetAttribute(name, fieldDomain.Plaintext(plaintext))
}

// IsNewRecord reports whether the document has never been saved or loaded.
func (d *Document) IsNewRecord() bool { return !d.persisted }

// MarkPersisted records a successful save.
func (d *Document) MarkPersisted() { d.persisted = true }

// Attributes returns a copy of every attribute.
func (d *Document) Attributes() map[string]fieldDomain.Value {
	return maps.Clone(d.attributes)
}

// AttributeNames returns the attribute names in sorted order.
func (d *Document) AttributeNames() []string {
	return slices.Sorted(maps.Keys(d.attributes))
}
