package ledger

import (
	"fmt"
	"sort"
	"strings"
)

// Factory builds a fresh Importer; every run gets its own classifier cache.
type Factory func() (Importer, error)

// Registry maps entity ids to importer factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Panics on duplicate entity.
func (r *Registry) Register(entity string, f Factory) {
	key := strings.ToLower(entity)
	if _, ok := r.factories[key]; ok {
		panic("duplicate entity: " + key)
	}
	r.factories[key] = f
}

// Get returns the factory for entity, or nil.
func (r *Registry) Get(entity string) Factory {
	return r.factories[strings.ToLower(entity)]
}

// New builds the importer for entity.
func (r *Registry) New(entity string) (Importer, error) {
	f := r.Get(entity)
	if f == nil {
		return nil, fmt.Errorf("%q: %w", entity, ErrUnknownEntity)
	}
	return f()
}

// Entities lists registered entity ids in sorted order.
func (r *Registry) Entities() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry registers one rule-engine importer per profile.
func DefaultRegistry(profiles map[string]Profile, k Knowledge) *Registry {
	r := NewRegistry()
	for id, p := range profiles {
		r.Register(id, func() (Importer, error) {
			return NewImporter(strings.ToLower(id), p, k)
		})
	}
	return r
}
