package wiremap

import (
	"maps"
	"sync"
)

// Registry is the model set backing a Serializer: composite class name to
// mapper, plus the discriminator index keyed by
// "uberParent.discriminatorValue" (or the uber parent alone, when the
// discriminator value equals it).
//
// Populate the registry fully before handing it to a Serializer. After
// publication it must never be mutated; reads are safe without external
// synchronization across concurrent marshaling calls.
type Registry struct {
	mu             sync.RWMutex
	models         map[string]*Composite
	discriminators map[string]*Composite
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		models:         make(map[string]*Composite),
		discriminators: make(map[string]*Composite),
	}
}

// Register adds a composite mapper under its class name.
func (r *Registry) Register(className string, m *Composite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[className]; exists {
		return schemaErrorf("class %q is already registered", className)
	}
	r.models[className] = m
	return nil
}

// MustRegister is Register, panicking on error. Intended for package-level
// schema construction where a duplicate is a programming mistake.
func (r *Registry) MustRegister(className string, m *Composite) {
	if err := r.Register(className, m); err != nil {
		panic(err)
	}
}

// RegisterDiscriminator indexes the concrete subtype mapper for a
// discriminated hierarchy. The index must be fully populated before any
// polymorphic value is processed; a missing entry makes the engine fall back
// to the base mapper rather than fail.
func (r *Registry) RegisterDiscriminator(index string, m *Composite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.discriminators[index]; exists {
		return schemaErrorf("discriminator index %q is already registered", index)
	}
	r.discriminators[index] = m
	return nil
}

// MustRegisterDiscriminator is RegisterDiscriminator, panicking on error.
func (r *Registry) MustRegisterDiscriminator(index string, m *Composite) {
	if err := r.RegisterDiscriminator(index, m); err != nil {
		panic(err)
	}
}

// Model looks up a registered composite by class name.
func (r *Registry) Model(className string) (*Composite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[className]
	return m, ok
}

// Discriminated looks up the subtype mapper for a discriminator index.
func (r *Registry) Discriminated(index string) (*Composite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.discriminators[index]
	return m, ok
}

// Clone returns an independent copy, useful for building fixture registries
// on top of a shared base.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	maps.Copy(clone.models, r.models)
	maps.Copy(clone.discriminators, r.discriminators)
	return clone
}
