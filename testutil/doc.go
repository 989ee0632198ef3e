// Package testutil provides reference structures and random systems for
// tests and benchmarks.
//
// # Reference Systems
//
//	water := testutil.Water()
//	systems := testutil.Systems("water", "methane")
//
// # Random Systems
//
//	rng := testutil.NewRNG(seed)
//	sys := rng.RandomSystem(20, 5.0, []int{1, 6, 8})
package testutil
