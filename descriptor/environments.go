package descriptor

import (
	"errors"
	"slices"

	"github.com/hupe1980/rascal/system"
)

// ErrGradientsNotSupported is returned by environments without a gradient
// sample definition.
var ErrGradientsNotSupported = errors.New("descriptor: environment does not support gradients")

// EnvironmentIndexes describes the full sample space of a calculator and the
// gradient rows that belong to a subset of it.
type EnvironmentIndexes interface {
	// Names returns the sample column names.
	Names() []string
	// Indexes enumerates every valid sample of the systems.
	Indexes(systems []system.System) *Indexes
	// GradientsFor returns the gradient sample rows for samples, or
	// ErrGradientsNotSupported.
	GradientsFor(systems []system.System, samples *Indexes) (*Indexes, error)
}

// spatial components of a gradient row
const spatialDims = 3

// StructureEnvironment has one sample per system.
type StructureEnvironment struct{}

// Names implements EnvironmentIndexes.
func (StructureEnvironment) Names() []string { return []string{"structure"} }

// Indexes implements EnvironmentIndexes.
func (e StructureEnvironment) Indexes(systems []system.System) *Indexes {
	b := NewIndexesBuilder(e.Names()...)
	for i := range systems {
		b.AddInts(i)
	}
	return b.Finish()
}

// GradientsFor returns one row per atom and spatial direction of every
// requested structure.
func (StructureEnvironment) GradientsFor(systems []system.System, samples *Indexes) (*Indexes, error) {
	b := NewIndexesBuilder("structure", "atom", "spatial")
	for _, sample := range samples.All() {
		structure := sample[0].Usize()
		for atom := 0; atom < systems[structure].Size(); atom++ {
			for s := 0; s < spatialDims; s++ {
				b.AddInts(structure, atom, s)
			}
		}
	}
	return b.Finish(), nil
}

// AtomEnvironment has one sample per atom.
type AtomEnvironment struct {
	Cutoff float64
}

// NewAtomEnvironment returns an AtomEnvironment with the given neighbor cutoff.
func NewAtomEnvironment(cutoff float64) AtomEnvironment {
	return AtomEnvironment{Cutoff: cutoff}
}

// Names implements EnvironmentIndexes.
func (AtomEnvironment) Names() []string { return []string{"structure", "center"} }

// Indexes implements EnvironmentIndexes.
func (e AtomEnvironment) Indexes(systems []system.System) *Indexes {
	b := NewIndexesBuilder(e.Names()...)
	for i, sys := range systems {
		for center := 0; center < sys.Size(); center++ {
			b.AddInts(i, center)
		}
	}
	return b.Finish()
}

// GradientsFor returns one row per neighbor within the cutoff and spatial
// direction of every requested center.
func (e AtomEnvironment) GradientsFor(systems []system.System, samples *Indexes) (*Indexes, error) {
	b := NewIndexesBuilder("structure", "center", "neighbor", "spatial")
	computed := make(map[int]bool)
	for _, sample := range samples.All() {
		structure, center := sample[0].Usize(), sample[1].Usize()
		sys := systems[structure]
		if !computed[structure] {
			sys.ComputeNeighbors(e.Cutoff)
			computed[structure] = true
		}
		for _, neighbor := range Neighbors(sys, center) {
			for s := 0; s < spatialDims; s++ {
				b.AddInts(structure, center, neighbor, s)
			}
		}
	}
	return b.Finish(), nil
}

// StructureSpeciesEnvironment has one sample per species present in a system.
type StructureSpeciesEnvironment struct{}

// Names implements EnvironmentIndexes.
func (StructureSpeciesEnvironment) Names() []string { return []string{"structure", "species"} }

// Indexes implements EnvironmentIndexes.
func (e StructureSpeciesEnvironment) Indexes(systems []system.System) *Indexes {
	b := NewIndexesBuilder(e.Names()...)
	for i, sys := range systems {
		for _, species := range sortedUnique(slices.Clone(sys.Species())) {
			b.AddInts(i, species)
		}
	}
	return b.Finish()
}

// GradientsFor implements EnvironmentIndexes.
func (StructureSpeciesEnvironment) GradientsFor([]system.System, *Indexes) (*Indexes, error) {
	return nil, ErrGradientsNotSupported
}

// AtomSpeciesEnvironment has one sample per center atom and neighbor species
// found within the cutoff.
type AtomSpeciesEnvironment struct {
	Cutoff float64
}

// NewAtomSpeciesEnvironment returns an AtomSpeciesEnvironment with the given
// neighbor cutoff.
func NewAtomSpeciesEnvironment(cutoff float64) AtomSpeciesEnvironment {
	return AtomSpeciesEnvironment{Cutoff: cutoff}
}

// Names implements EnvironmentIndexes.
func (AtomSpeciesEnvironment) Names() []string {
	return []string{"structure", "center", "species_center", "species_neighbor"}
}

// Indexes implements EnvironmentIndexes.
func (e AtomSpeciesEnvironment) Indexes(systems []system.System) *Indexes {
	b := NewIndexesBuilder(e.Names()...)
	for i, sys := range systems {
		sys.ComputeNeighbors(e.Cutoff)
		species := sys.Species()
		for center := 0; center < sys.Size(); center++ {
			for _, neighborSpecies := range NeighborSpecies(sys, center) {
				b.AddInts(i, center, species[center], neighborSpecies)
			}
		}
	}
	return b.Finish()
}

// GradientsFor returns one row per neighbor of the sample's neighbor species
// and spatial direction.
func (e AtomSpeciesEnvironment) GradientsFor(systems []system.System, samples *Indexes) (*Indexes, error) {
	b := NewIndexesBuilder(
		"structure", "center", "species_center", "species_neighbor", "neighbor", "spatial",
	)
	computed := make(map[int]bool)
	for _, sample := range samples.All() {
		structure, center := sample[0].Usize(), sample[1].Usize()
		alpha, beta := sample[2].Usize(), sample[3].Usize()
		sys := systems[structure]
		if !computed[structure] {
			sys.ComputeNeighbors(e.Cutoff)
			computed[structure] = true
		}
		species := sys.Species()
		for _, neighbor := range Neighbors(sys, center) {
			if species[neighbor] != beta {
				continue
			}
			for s := 0; s < spatialDims; s++ {
				b.AddInts(structure, center, alpha, beta, neighbor, s)
			}
		}
	}
	return b.Finish(), nil
}

// ThreeBodiesSpeciesEnvironment has one sample per center atom and unordered
// pair of neighbor species found within the cutoff.
type ThreeBodiesSpeciesEnvironment struct {
	Cutoff float64
}

// NewThreeBodiesSpeciesEnvironment returns a ThreeBodiesSpeciesEnvironment
// with the given neighbor cutoff.
func NewThreeBodiesSpeciesEnvironment(cutoff float64) ThreeBodiesSpeciesEnvironment {
	return ThreeBodiesSpeciesEnvironment{Cutoff: cutoff}
}

// Names implements EnvironmentIndexes.
func (ThreeBodiesSpeciesEnvironment) Names() []string {
	return []string{"structure", "center", "species_center", "species_neighbor_1", "species_neighbor_2"}
}

// Indexes implements EnvironmentIndexes.
func (e ThreeBodiesSpeciesEnvironment) Indexes(systems []system.System) *Indexes {
	b := NewIndexesBuilder(e.Names()...)
	for i, sys := range systems {
		sys.ComputeNeighbors(e.Cutoff)
		species := sys.Species()
		for center := 0; center < sys.Size(); center++ {
			present := NeighborSpecies(sys, center)
			for j, s1 := range present {
				for _, s2 := range present[j:] {
					b.AddInts(i, center, species[center], s1, s2)
				}
			}
		}
	}
	return b.Finish()
}

// GradientsFor implements EnvironmentIndexes.
func (ThreeBodiesSpeciesEnvironment) GradientsFor([]system.System, *Indexes) (*Indexes, error) {
	return nil, ErrGradientsNotSupported
}

// Neighbors returns the atoms paired with center in the current neighbor
// list, ascending and without duplicates.
func Neighbors(sys system.System, center int) []int {
	var out []int
	for _, p := range sys.PairsContaining(center) {
		switch center {
		case p.First:
			out = append(out, p.Second)
		case p.Second:
			out = append(out, p.First)
		}
	}
	out = sortedUnique(out)
	if i, ok := slices.BinarySearch(out, center); ok {
		out = slices.Delete(out, i, i+1)
	}
	return out
}

// NeighborSpecies returns the species of the neighbors of center, ascending
// and without duplicates.
func NeighborSpecies(sys system.System, center int) []int {
	species := sys.Species()
	neighbors := Neighbors(sys, center)
	out := make([]int, len(neighbors))
	for i, n := range neighbors {
		out[i] = species[n]
	}
	return sortedUnique(out)
}

func sortedUnique(values []int) []int {
	slices.Sort(values)
	return slices.Compact(values)
}
