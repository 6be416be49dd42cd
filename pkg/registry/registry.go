package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/cadmark/pkg/codec"
	"github.com/aretw0/cadmark/pkg/domain"
)

// Factory creates an annotation with its type defaults.
type Factory func() *domain.Annotation

// Registry manages the available annotation types.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a type to the registry under its simple name.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[codec.SimpleTypeName(name)] = fn
}

// New creates an annotation of the named type. Qualified names resolve by
// their simple name, so blobs written by other builds still match.
// Returns domain.ErrUnknownType if the type is not registered.
func (r *Registry) New(name string) (*domain.Annotation, error) {
	r.mu.RLock()
	fn, ok := r.factories[codec.SimpleTypeName(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownType, name)
	}
	return fn(), nil
}

// Resolve maps a qualified type name to the registered simple name.
func (r *Registry) Resolve(qualified string) (string, bool) {
	name := codec.SimpleTypeName(qualified)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return name, ok
}

// Has reports whether the named type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[codec.SimpleTypeName(name)]
	return ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
