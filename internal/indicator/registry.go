package indicator

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// Factory builds a fresh, default-configured indicator.
type Factory func() Indicator

// IndicatorRegistry maps indicator names to factories.
// Indicators are stateful once configured, so every lookup builds a new one.
type IndicatorRegistry interface {
	RegisterIndicator(name types.IndicatorType, factory Factory) error
	NewIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// Registry is the default IndicatorRegistry.
type Registry struct {
	factories map[types.IndicatorType]Factory
	mu        sync.RWMutex
}

// NewIndicatorRegistry creates an empty registry.
func NewIndicatorRegistry() *Registry {
	return &Registry{
		factories: make(map[types.IndicatorType]Factory),
		mu:        sync.RWMutex{},
	}
}

// RegisterIndicator adds a factory under name.
func (r *Registry) RegisterIndicator(name types.IndicatorType, factory Factory) error {
	if factory == nil {
		return errors.Newf(errors.ErrCodeMissingParameter, "RegisterIndicator: nil factory for %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterIndicator: indicator %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// NewIndicator builds a new indicator registered under name.
func (r *Registry) NewIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %s", name)
	}

	return factory(), nil
}

// ListIndicators returns all registered indicator names in sorted order.
func (r *Registry) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *Registry) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveIndicator: indicator %s not found", name)
	}

	delete(r.factories, name)

	return nil
}
