package rascal

import (
	"maps"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/rascal/calculators"
	"github.com/hupe1980/rascal/codec"
)

var validate = validator.New()

// Factory builds a calculator implementation from a parameter document.
type Factory func(parameters string, c codec.Codec) (calculators.CalculatorBase, error)

// Registry maps calculator names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in calculators:
// "dummy_calculator" and "sorted_distances".
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.factories["dummy_calculator"] = JSONFactory("dummy_calculator",
		func(p calculators.DummyParameters) calculators.CalculatorBase {
			return calculators.NewDummyCalculator(p)
		})
	r.factories["sorted_distances"] = JSONFactory("sorted_distances",
		func(p calculators.SortedDistancesParameters) calculators.CalculatorBase {
			return calculators.NewSortedDistances(p)
		})
	return r
}

// NewEmptyRegistry returns a registry without any calculator.
func NewEmptyRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return &DuplicateCalculatorError{Name: name}
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}

// Create builds the implementation registered under name.
func (r *Registry) Create(name, parameters string, c codec.Codec) (calculators.CalculatorBase, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	if c == nil {
		c = codec.Default
	}
	return f(parameters, c)
}

// JSONFactory returns a Factory that decodes the document into P, validates
// it with its `validate` struct tags and hands it to build. P must be a
// struct type. Unknown fields are rejected.
func JSONFactory[P any](name string, build func(P) calculators.CalculatorBase) Factory {
	return func(parameters string, c codec.Codec) (calculators.CalculatorBase, error) {
		var p P
		if err := codec.UnmarshalStrict(c, []byte(parameters), &p); err != nil {
			return nil, &ParameterError{Calculator: name, cause: err}
		}
		if err := validate.Struct(p); err != nil {
			return nil, &ParameterError{Calculator: name, cause: err}
		}
		return build(p), nil
	}
}
