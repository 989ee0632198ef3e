package system

// Pair is a neighbor pair within the cutoff of the last ComputeNeighbors call.
// First is always smaller than Second, and Vector points from First to Second.
type Pair struct {
	First  int
	Second int
	Vector Vector3
}

// Distance returns the norm of the pair vector.
func (p Pair) Distance() float64 { return p.Vector.Norm() }

// System is one atomic structure.
//
// ComputeNeighbors must be called before Pairs or PairsContaining; both then
// report the pairs for the most recent cutoff.
type System interface {
	// Size returns the number of atoms.
	Size() int
	// Species returns one species id per atom.
	Species() []int
	// Positions returns one cartesian position per atom.
	Positions() []Vector3
	// Cell returns the periodic cell.
	Cell() UnitCell
	// ComputeNeighbors updates the neighbor list for the given cutoff.
	ComputeNeighbors(cutoff float64)
	// Pairs returns every pair within the cutoff exactly once.
	Pairs() []Pair
	// PairsContaining returns the pairs where center is First or Second.
	PairsContaining(center int) []Pair
}

// FromSystem copies species, positions and cell of s into a new SimpleSystem.
func FromSystem(s System) *SimpleSystem {
	if simple, ok := s.(*SimpleSystem); ok {
		return simple.Clone()
	}

	species := append([]int(nil), s.Species()...)
	positions := append([]Vector3(nil), s.Positions()...)

	return &SimpleSystem{
		species:   species,
		positions: positions,
		cell:      s.Cell(),
		cutoff:    -1,
	}
}

// Natives copies every system with FromSystem.
func Natives(systems []System) []System {
	out := make([]System, len(systems))
	for i, s := range systems {
		out[i] = FromSystem(s)
	}
	return out
}
