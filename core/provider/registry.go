// Package provider - Registry for provider implementations
package provider

import (
	"sync"

	"tfadopt/internal/errors"
)

// Registry manages provider registration and lookup
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string // maintains registration order
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		return errors.Newf(errors.TypeConfig, "provider already registered: %s", name)
	}

	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	return p, ok
}

// Names returns registered provider names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register adds a provider to the default registry
func Register(p Provider) error {
	return defaultRegistry.Register(p)
}

// GetDefault returns the default registry
func GetDefault() *Registry {
	return defaultRegistry
}
