// Package repository implements document persistence for PostgreSQL and MySQL.
//
// Documents are stored as one row per document with the attributes serialized to a JSON
// object of stored field values: plaintext as-is, ciphertext as "enc:<kind>:<payload>".
// Encryption happens before a document reaches the repository, so nothing here ever sees
// plaintext of an encrypted field.
//
// # Transaction Support
//
// All repositories support transaction-aware operations via database.GetTx(). When called
// within a transaction context, repositories automatically use the transaction connection.
//
// # Usage Example
//
//	repo := repository.NewPostgreSQLDocumentRepository(db)
//	err := txManager.WithTx(ctx, func(txCtx context.Context) error {
//	    return repo.Upsert(txCtx, doc)
//	})
package repository

import (
	"encoding/json"
	"fmt"

	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
)

func marshalAttributes(attrs map[string]fieldDomain.Value) (string, error) {
	if attrs == nil {
		attrs = map[string]fieldDomain.Value{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal attributes: %w", err)
	}
	return string(data), nil
}

func unmarshalAttributes(data []byte) (map[string]fieldDomain.Value, error) {
	attrs := make(map[string]fieldDomain.Value)
	if len(data) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
	}
	return attrs, nil
}
