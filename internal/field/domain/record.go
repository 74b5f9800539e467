package domain

// Record is the host contract for a document whose fields are transformed in place.
//
// IsNewRecord reports whether the record was built in memory and never loaded from
// storage. It is the only gate the read path uses to skip cipher binding.
type Record interface {
	Attribute(name string) Value
	SetAttribute(name string, value Value)
	IsNewRecord() bool
}
