package swagger

import (
	"fmt"
	"sync"
)

// Registry holds the declared models in declaration order. Models are
// registered during application composition and never removed; a model
// identity can be registered only once.
type Registry struct {
	mu     sync.RWMutex
	models []*Model
	ids    map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Register appends a model. It returns an error wrapping ErrDuplicateModel
// when a model with the same identity is already registered.
func (r *Registry) Register(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[m.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, m.id)
	}

	r.ids[m.id] = struct{}{}
	r.models = append(r.models, m)

	return nil
}

// Snapshot returns the registered models in declaration order.
func (r *Registry) Snapshot() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]*Model, len(r.models))
	copy(models, r.models)
	return models
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Declare builds a model with NewModel and registers it.
func (r *Registry) Declare(id string, sig Signature, doc string) (*Model, error) {
	m, err := NewModel(id, sig, doc)
	if err != nil {
		return nil, err
	}
	if err := r.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeclareType builds a model with NewModelFromType and registers it.
func (r *Registry) DeclareType(v any, doc string) (*Model, error) {
	m, err := NewModelFromType(v, doc)
	if err != nil {
		return nil, err
	}
	if err := r.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MustDeclare is like Declare but panics on error. It is meant for
// package-level declarations, where a bad model must stop the program.
func (r *Registry) MustDeclare(id string, sig Signature, doc string) *Model {
	m, err := r.Declare(id, sig, doc)
	if err != nil {
		panic(err)
	}
	return m
}

// MustDeclareType is like DeclareType but panics on error.
func (r *Registry) MustDeclareType(v any, doc string) *Model {
	m, err := r.DeclareType(v, doc)
	if err != nil {
		panic(err)
	}
	return m
}
