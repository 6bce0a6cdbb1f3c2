package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/utils"
)

// Info describes a registered strategy for listings.
type Info struct {
	ID          types.StrategyType `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	// Schema is the JSON schema of the strategy parameters.
	Schema string `json:"schema" yaml:"schema"`
}

// Registry maps strategy identifiers to evaluators.
type Registry struct {
	evaluators map[types.StrategyType]Evaluator
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[types.StrategyType]Evaluator),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding the built-in strategies with default parameters.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	for _, evaluator := range []Evaluator{NewBuyHold(), NewSMACrossover(), NewRSIThreshold()} {
		// names are distinct, Register cannot fail here
		_ = registry.Register(evaluator)
	}

	return registry
}

// Register adds an evaluator under its Name.
func (r *Registry) Register(evaluator Evaluator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := evaluator.Name()
	if _, exists := r.evaluators[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", name)
	}

	r.evaluators[name] = evaluator

	return nil
}

// Get returns the evaluator registered under name.
func (r *Registry) Get(name types.StrategyType) (Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evaluator, ok := r.evaluators[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	return evaluator, nil
}

// Resolve looks up id and falls back to Buy & Hold when it is unknown.
// The boolean is false when the fallback was taken.
func (r *Registry) Resolve(id string) (Evaluator, bool) {
	if evaluator, err := r.Get(types.StrategyType(id)); err == nil {
		return evaluator, true
	}

	if evaluator, err := r.Get(types.StrategyBuyHold); err == nil {
		return evaluator, false
	}

	return NewBuyHold(), false
}

// List returns the registered strategy identifiers in sorted order.
func (r *Registry) List() []types.StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.StrategyType, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Describe returns listing information for every registered strategy, sorted by id.
func (r *Registry) Describe() ([]Info, error) {
	names := r.List()
	infos := make([]Info, 0, len(names))

	for _, name := range names {
		evaluator, err := r.Get(name)
		if err != nil {
			return nil, err
		}

		schema, err := utils.GetSchemaFromConfig(evaluator.Parameters())
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to build schema for %s", name)
		}

		infos = append(infos, Info{
			ID:          name,
			Name:        name.DisplayName(),
			Description: evaluator.Description(),
			Schema:      schema,
		})
	}

	return infos, nil
}
