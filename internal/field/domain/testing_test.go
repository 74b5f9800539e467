package domain

// mapRecord is a minimal Record backed by a map.
type mapRecord struct {
	id    string
	attrs map[string]Value
	isNew bool
}

func newMapRecord(id string, isNew bool) *mapRecord {
	return &mapRecord{id: id, attrs: make(map[string]Value), isNew: isNew}
}

func (r *mapRecord) Attribute(name string) Value {
	return r.attrs[name]
}

func (r *mapRecord) SetAttribute(name string, value Value) {
	r.attrs[name] = value
}

func (r *mapRecord) IsNewRecord() bool {
	return r.isNew
}
