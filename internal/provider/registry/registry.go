package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/davidbz/polyglot/internal/domain"
)

// Registry holds the engines that are configured and reachable. It implements
// the ProviderRegistry interface.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]domain.Engine
	order   []string
}

// NewRegistry creates a new engine registry (DI constructor).
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		engines: make(map[string]domain.Engine),
		order:   make([]string, 0),
	}
}

// Register adds an engine to the registry.
func (r *Registry) Register(_ context.Context, engine domain.Engine) error {
	if engine == nil {
		return errors.New("engine cannot be nil")
	}

	name := engine.Descriptor().Name
	if name == "" {
		return errors.New("engine name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("engine %s already registered", name)
	}

	r.engines[name] = engine
	r.order = append(r.order, name)

	return nil
}

// Get retrieves an engine by name.
func (r *Registry) Get(_ context.Context, name string) (domain.Engine, error) {
	if name == "" {
		return nil, errors.New("engine name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, exists := r.engines[name]
	if !exists {
		return nil, fmt.Errorf("engine %s not found", name)
	}

	return engine, nil
}

// Has reports whether the engine is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.engines[name]
	return exists
}

// List returns the registered engine names in registration order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names, nil
}

// Snapshot returns a copy of the registered engines keyed by name.
func (r *Registry) Snapshot() map[string]domain.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]domain.Engine, len(r.engines))
	for name, engine := range r.engines {
		snapshot[name] = engine
	}

	return snapshot
}
