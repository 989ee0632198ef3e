// Package descriptor holds the index algebra and the dense output store of a
// descriptor computation.
//
// An Indexes value is an ordered set of fixed-arity tuples with named columns.
// It describes either the rows (samples) or the columns (features) of a
// Descriptor, and its order defines the row or column order of the values
// matrix. Indexes are only obtained through an IndexesBuilder and are
// immutable afterwards.
//
// EnvironmentIndexes implementations enumerate the complete sample space of a
// batch of systems and derive the gradient rows matching a sample subset.
package descriptor
