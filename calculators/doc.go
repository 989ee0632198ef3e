// Package calculators contains the CalculatorBase contract and the built-in
// descriptor algorithms.
//
// A CalculatorBase declares its full feature space and its environment (the
// full sample space). The orchestrator in the root package resolves the
// caller's selections against those spaces, prepares the Descriptor and then
// calls Compute, which fills exactly the rows and columns already fixed in the
// Descriptor.
package calculators
