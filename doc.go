// Package rascal turns atomic structures into fixed-layout descriptors for
// machine-learning models.
//
// A Calculator wraps one descriptor algorithm. Its full output space is
// described by two index sets: features (columns) and samples (rows, derived
// from the systems by an environment definition). A Compute call may restrict
// either of them, and the Descriptor is shaped to exactly the selection before
// the algorithm fills it in place.
//
// # Quick Start
//
//	registry := rascal.NewRegistry()
//	calc, _ := rascal.NewCalculator(registry, "sorted_distances", `{"cutoff": 3.5, "max_neighbors": 8}`)
//
//	d := descriptor.New()
//	_ = calc.Compute(systems, d, rascal.CalculationOptions{})
//	fmt.Println(d.Values().Shape())
//
// Fluent builders are available for the built-in calculators:
//
//	calc, _ := rascal.SortedDistances(3.5).MaxNeighbors(8).Workers(4).Build()
//
// # Partial Computations
//
// Selections are resolved against the full spaces of the calculator:
//
//	opts := rascal.CalculationOptions{
//	    SelectedSamples:  rascal.Select(samples),
//	    SelectedFeatures: rascal.SelectFlat([]float64{0, 2}),
//	}
//
// Flat selections must have a length that is a multiple of the arity of the
// target space; anything else fails with a *SelectionSizeError.
//
// # Errors
//
// Every recoverable error matches ErrInvalidParameter with errors.Is.
// Internal consistency violations (a selection outside the declared spaces, a
// gradient calculator on an environment without gradients) panic with an
// *invariant.Violation: they are programming errors, not bad input. The capi
// package converts such panics into status codes.
package rascal
