package system

import (
	"fmt"
	"slices"

	"github.com/hupe1980/rascal/internal/invariant"
)

// SimpleSystem is an in-memory System with an all-pairs neighbor search.
type SimpleSystem struct {
	species   []int
	positions []Vector3
	cell      UnitCell

	cutoff   float64
	pairs    []Pair
	byCenter [][]int // pair indexes per atom
}

// NewSimpleSystem creates an empty system in the given cell.
func NewSimpleSystem(cell UnitCell) *SimpleSystem {
	return &SimpleSystem{cell: cell, cutoff: -1}
}

// New creates a system from parallel species and position slices.
func New(species []int, positions []Vector3, cell UnitCell) (*SimpleSystem, error) {
	if len(species) != len(positions) {
		return nil, fmt.Errorf("system: got %d species for %d positions", len(species), len(positions))
	}
	for i, z := range species {
		if z < 0 {
			return nil, fmt.Errorf("system: atom %d has negative species %d", i, z)
		}
	}
	s := NewSimpleSystem(cell)
	s.species = append(s.species, species...)
	s.positions = append(s.positions, positions...)
	return s, nil
}

// AddAtom appends an atom and invalidates the neighbor list. species must
// not be negative.
func (s *SimpleSystem) AddAtom(species int, position Vector3) {
	invariant.Check(species >= 0, "negative species %d for atom %d", species, len(s.species))
	s.species = append(s.species, species)
	s.positions = append(s.positions, position)
	s.cutoff = -1
}

// Size implements System.
func (s *SimpleSystem) Size() int { return len(s.species) }

// Species implements System.
func (s *SimpleSystem) Species() []int { return s.species }

// Positions implements System.
func (s *SimpleSystem) Positions() []Vector3 { return s.positions }

// Cell implements System.
func (s *SimpleSystem) Cell() UnitCell { return s.cell }

// ComputeNeighbors implements System. Calling it again with the same cutoff
// reuses the previous list.
func (s *SimpleSystem) ComputeNeighbors(cutoff float64) {
	if cutoff == s.cutoff && s.byCenter != nil {
		return
	}

	n := len(s.positions)
	cutoff2 := cutoff * cutoff
	s.pairs = s.pairs[:0]
	s.byCenter = make([][]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := s.cell.MinimumImage(s.positions[j].Sub(s.positions[i]))
			if v.Norm2() < cutoff2 {
				idx := len(s.pairs)
				s.pairs = append(s.pairs, Pair{First: i, Second: j, Vector: v})
				s.byCenter[i] = append(s.byCenter[i], idx)
				s.byCenter[j] = append(s.byCenter[j], idx)
			}
		}
	}
	s.cutoff = cutoff
}

// Pairs implements System.
func (s *SimpleSystem) Pairs() []Pair {
	s.mustHaveNeighbors()
	return s.pairs
}

// PairsContaining implements System.
func (s *SimpleSystem) PairsContaining(center int) []Pair {
	s.mustHaveNeighbors()
	out := make([]Pair, 0, len(s.byCenter[center]))
	for _, idx := range s.byCenter[center] {
		out = append(out, s.pairs[idx])
	}
	return out
}

// Clone returns a deep copy that shares no storage with s.
func (s *SimpleSystem) Clone() *SimpleSystem {
	return &SimpleSystem{
		species:   slices.Clone(s.species),
		positions: slices.Clone(s.positions),
		cell:      s.cell,
		cutoff:    -1,
	}
}

func (s *SimpleSystem) mustHaveNeighbors() {
	if s.byCenter == nil {
		panic("system: ComputeNeighbors must be called before querying pairs")
	}
}
