package calculators

import (
	"slices"

	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/internal/invariant"
	"github.com/hupe1980/rascal/system"
)

// CalculatorBase is implemented by every descriptor algorithm.
type CalculatorBase interface {
	// Name returns a human readable description of the algorithm.
	Name() string
	// Parameters returns the canonical parameter document.
	Parameters() string

	// FeaturesNames returns the feature column names.
	FeaturesNames() []string
	// Features returns the full feature space.
	Features() *descriptor.Indexes
	// Environments describes the full sample space.
	Environments() descriptor.EnvironmentIndexes
	// ComputeGradients reports whether Compute also fills gradients.
	ComputeGradients() bool

	// CheckFeatures panics if features is not a subset of the feature space.
	CheckFeatures(features *descriptor.Indexes)
	// CheckEnvironments panics if samples is not a subset of the sample
	// space of systems.
	CheckEnvironments(samples *descriptor.Indexes, systems []system.System)

	// Compute fills the values (and gradients) of d for the rows and
	// columns prepared in it.
	Compute(systems []system.System, d *descriptor.Descriptor)
}

// ParallelCalculator is implemented by calculators that can process systems
// concurrently.
type ParallelCalculator interface {
	CalculatorBase
	SetWorkers(n int)
}

// Parallelism is embedded by calculators that fan out over systems.
type Parallelism struct {
	workers int
}

// SetWorkers sets the number of concurrently processed systems. Values below
// one mean sequential.
func (p *Parallelism) SetWorkers(n int) { p.workers = n }

// Workers returns the configured worker count, at least one.
func (p *Parallelism) Workers() int { return max(p.workers, 1) }

// checkNames panics unless x carries exactly the expected names.
func checkNames(x *descriptor.Indexes, expected []string) {
	invariant.Check(slices.Equal(x.Names(), expected),
		"unexpected index names %v, expected %v", x.Names(), expected)
}

// checkSubset panics unless every tuple of x is a member of allowed.
func checkSubset(x, allowed *descriptor.Indexes, what string) {
	for _, tuple := range x.All() {
		invariant.Check(allowed.Contains(tuple), "%v is not a valid %s", tuple, what)
	}
}
