// Package domain defines field registration for transparent encryption: the FieldSpec
// table, static and deferred cipher options, the Value union stored in record fields and
// the Record contract a host document implements.
package domain

import (
	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// FieldSpec declares how one field is transformed: the cipher kind and its options.
type FieldSpec struct {
	Name    string
	Kind    cipherDomain.Kind
	Options Options
}

func (s FieldSpec) clone() FieldSpec {
	s.Options = s.Options.Clone()
	return s
}
