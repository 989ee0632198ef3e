package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal/system"
	"github.com/hupe1980/rascal/testutil"
)

func TestStructureEnvironment(t *testing.T) {
	systems := testutil.Systems("water", "methane")
	env := StructureEnvironment{}

	samples := env.Indexes(systems)
	assert.Equal(t, []string{"structure"}, samples.Names())
	assert.Equal(t, 2, samples.Count())

	grads, err := env.GradientsFor(systems, samples)
	require.NoError(t, err)
	assert.Equal(t, []string{"structure", "atom", "spatial"}, grads.Names())
	assert.Equal(t, (3+5)*3, grads.Count())
	assert.Equal(t, Ints(1, 4, 2), grads.At(grads.Count()-1))
}

func TestAtomEnvironment(t *testing.T) {
	systems := testutil.Systems("water")
	env := NewAtomEnvironment(1.5)

	samples := env.Indexes(systems)
	assert.Equal(t, 3, samples.Count())
	assert.Equal(t, Ints(0, 2), samples.At(2))

	grads, err := env.GradientsFor(systems, samples)
	require.NoError(t, err)
	// O has two neighbors, each H only the O
	assert.Equal(t, (2+1+1)*3, grads.Count())
	assert.Equal(t, Ints(0, 0, 1, 0), grads.At(0))
	assert.Equal(t, Ints(0, 1, 0, 0), grads.At(6))
}

func TestStructureSpeciesEnvironment(t *testing.T) {
	systems := testutil.Systems("water", "methane")
	env := StructureSpeciesEnvironment{}

	samples := env.Indexes(systems)
	require.Equal(t, 4, samples.Count())
	assert.Equal(t, Ints(0, 1), samples.At(0))
	assert.Equal(t, Ints(0, testutil.WaterOxygenSpecies), samples.At(1))
	assert.Equal(t, Ints(1, 6), samples.At(3))

	_, err := env.GradientsFor(systems, samples)
	require.ErrorIs(t, err, ErrGradientsNotSupported)
}

func TestAtomSpeciesEnvironment(t *testing.T) {
	systems := testutil.Systems("water")
	env := NewAtomSpeciesEnvironment(1.5)

	samples := env.Indexes(systems)
	assert.Equal(t, []string{"structure", "center", "species_center", "species_neighbor"}, samples.Names())
	require.Equal(t, 3, samples.Count())
	assert.Equal(t, Ints(0, 0, testutil.WaterOxygenSpecies, 1), samples.At(0))
	assert.Equal(t, Ints(0, 1, 1, testutil.WaterOxygenSpecies), samples.At(1))
	assert.Equal(t, Ints(0, 2, 1, testutil.WaterOxygenSpecies), samples.At(2))

	// with a larger cutoff hydrogens see each other
	wide := NewAtomSpeciesEnvironment(2.0).Indexes(systems)
	assert.Equal(t, 5, wide.Count())
	assert.True(t, wide.Contains(Ints(0, 1, 1, 1)))

	grads, err := env.GradientsFor(systems, samples)
	require.NoError(t, err)
	assert.Len(t, grads.Names(), 6)
	assert.Equal(t, (2+1+1)*3, grads.Count())
}

func TestThreeBodiesSpeciesEnvironment(t *testing.T) {
	systems := testutil.Systems("water")
	env := NewThreeBodiesSpeciesEnvironment(2.0)

	samples := env.Indexes(systems)
	// O sees {1}; each H sees {1, 123456}
	require.Equal(t, 1+3+3, samples.Count())
	assert.Equal(t, Ints(0, 0, testutil.WaterOxygenSpecies, 1, 1), samples.At(0))
	assert.Equal(t, Ints(0, 1, 1, 1, testutil.WaterOxygenSpecies), samples.At(2))

	_, err := env.GradientsFor(systems, samples)
	require.ErrorIs(t, err, ErrGradientsNotSupported)
}

func TestNeighbors(t *testing.T) {
	w := testutil.Water()
	w.ComputeNeighbors(1.5)
	assert.Equal(t, []int{1, 2}, Neighbors(w, 0))
	assert.Equal(t, []int{0}, Neighbors(w, 1))
	assert.Equal(t, []int{1}, NeighborSpecies(w, 0))

	isolated, err := system.New([]int{1}, []system.Vector3{{0, 0, 0}}, system.InfiniteCell())
	require.NoError(t, err)
	isolated.ComputeNeighbors(1)
	assert.Empty(t, Neighbors(isolated, 0))
}
