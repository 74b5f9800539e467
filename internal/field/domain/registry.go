package domain

import (
	"slices"
	"sync"
	"sync/atomic"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// Registry maps field names to FieldSpecs. It is built at schema construction and sealed
// before use; a sealed registry is read without locking.
type Registry struct {
	mu     sync.RWMutex
	sealed atomic.Bool
	specs  map[string]FieldSpec
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]FieldSpec)}
}

// Register adds or overwrites the FieldSpec for name. Options are copied.
func (r *Registry) Register(name string, kind cipherDomain.Kind, opts Options) error {
	if name == "" {
		return ErrEmptyFieldName
	}
	if _, err := cipherDomain.ParseKind(string(kind)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	r.put(FieldSpec{Name: name, Kind: kind, Options: opts}.clone())
	return nil
}

// RegisterAuto registers every name in declared that is not in exclude and returns the
// registered names in declaration order. Nothing is registered when an error is returned.
func (r *Registry) RegisterAuto(
	declared []string,
	exclude []string,
	kind cipherDomain.Kind,
	opts Options,
) ([]string, error) {
	if _, err := cipherDomain.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	names := make([]string, 0, len(declared))
	for _, name := range declared {
		if name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, ok := skip[name]; ok || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return nil, ErrRegistrySealed
	}
	for _, name := range names {
		r.put(FieldSpec{Name: name, Kind: kind, Options: opts}.clone())
	}
	return names, nil
}

func (r *Registry) put(spec FieldSpec) {
	if _, exists := r.specs[spec.Name]; !exists {
		r.order = append(r.order, spec.Name)
	}
	r.specs[spec.Name] = spec
}

// Lookup returns the FieldSpec for name. A miss returns a *LookupError.
func (r *Registry) Lookup(name string) (FieldSpec, error) {
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	spec, ok := r.specs[name]
	if !ok {
		return FieldSpec{}, &LookupError{Field: name}
	}
	return spec.clone(), nil
}

// IsRegistered reports whether name has a FieldSpec.
func (r *Registry) IsRegistered(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Fields returns the registered names in registration order.
func (r *Registry) Fields() []string {
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return slices.Clone(r.order)
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed.Store(true)
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool { return r.sealed.Load() }
