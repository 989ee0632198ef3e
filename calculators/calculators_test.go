package calculators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/internal/invariant"
	"github.com/hupe1980/rascal/system"
	"github.com/hupe1980/rascal/testutil"
)

const oh = 0.957897074324794

func compute(c CalculatorBase, systems []system.System, samples, features *descriptor.Indexes) *descriptor.Descriptor {
	if samples == nil {
		samples = c.Environments().Indexes(systems)
	}
	if features == nil {
		features = c.Features()
	}
	c.CheckFeatures(features)
	c.CheckEnvironments(samples, systems)

	d := descriptor.New()
	if c.ComputeGradients() {
		grads, err := c.Environments().GradientsFor(systems, samples)
		if err != nil {
			panic(err)
		}
		d.PrepareGradients(samples, grads, features)
	} else {
		d.Prepare(samples, features)
	}
	c.Compute(systems, d)
	return d
}

func violation(fn func()) (v *invariant.Violation) {
	defer func() {
		v, _ = recover().(*invariant.Violation)
	}()
	fn()
	return nil
}

func TestSortedDistances(t *testing.T) {
	c := NewSortedDistances(SortedDistancesParameters{Cutoff: 1.5, MaxNeighbors: 3})
	assert.Equal(t, "sorted distances vector", c.Name())
	assert.JSONEq(t, `{"cutoff":1.5,"max_neighbors":3}`, c.Parameters())
	assert.False(t, c.ComputeGradients())

	t.Run("Values", func(t *testing.T) {
		d := compute(c, testutil.Systems("water"), nil, nil)
		rows, cols := d.Values().Shape()
		require.Equal(t, 3, rows)
		require.Equal(t, 3, cols)

		assert.InDeltaSlice(t, []float64{oh, oh, 1.5}, d.Values().Row(0), 1e-12)
		assert.InDeltaSlice(t, []float64{oh, 1.5, 1.5}, d.Values().Row(1), 1e-12)
		assert.InDeltaSlice(t, []float64{oh, 1.5, 1.5}, d.Values().Row(2), 1e-12)

		for i := 0; i < rows; i++ {
			row := d.Values().Row(i)
			for j := 1; j < cols; j++ {
				assert.LessOrEqual(t, row[j-1], row[j])
			}
		}
	})

	t.Run("PartialSamples", func(t *testing.T) {
		b := descriptor.NewIndexesBuilder("structure", "center", "species_center", "species_neighbor")
		b.AddInts(0, 1, 1, testutil.WaterOxygenSpecies)
		d := compute(c, testutil.Systems("water"), b.Finish(), nil)

		require.Equal(t, 1, d.Values().Rows())
		assert.InDeltaSlice(t, []float64{oh, 1.5, 1.5}, d.Values().Row(0), 1e-12)
	})

	t.Run("PartialFeatures", func(t *testing.T) {
		full := compute(c, testutil.Systems("water"), nil, nil)

		b := descriptor.NewIndexesBuilder("neighbor")
		b.AddInts(0)
		b.AddInts(2)
		d := compute(c, testutil.Systems("water"), nil, b.Finish())

		rows, cols := d.Values().Shape()
		require.Equal(t, 3, rows)
		require.Equal(t, 2, cols)
		for i := 0; i < rows; i++ {
			assert.Equal(t, full.Values().At(i, 0), d.Values().At(i, 0))
			assert.Equal(t, full.Values().At(i, 2), d.Values().At(i, 1))
		}
	})

	t.Run("ReorderedFeatures", func(t *testing.T) {
		full := compute(c, testutil.Systems("water"), nil, nil)

		b := descriptor.NewIndexesBuilder("neighbor")
		b.AddInts(2)
		b.AddInts(1)
		b.AddInts(0)
		d := compute(c, testutil.Systems("water"), nil, b.Finish())
		assert.Equal(t, full.Values().At(0, 2), d.Values().At(0, 0))
		assert.Equal(t, full.Values().At(0, 0), d.Values().At(0, 2))
	})

	t.Run("Truncates", func(t *testing.T) {
		one := NewSortedDistances(SortedDistancesParameters{Cutoff: 1.5, MaxNeighbors: 1})
		d := compute(one, testutil.Systems("water"), nil, nil)
		assert.InDelta(t, oh, d.Values().At(0, 0), 1e-12)
	})

	t.Run("InvalidFeature", func(t *testing.T) {
		b := descriptor.NewIndexesBuilder("neighbor")
		b.AddInts(3)
		v := violation(func() { c.CheckFeatures(b.Finish()) })
		require.NotNil(t, v)
		assert.Contains(t, v.Message, "is not a valid feature")

		v = violation(func() { c.CheckFeatures(descriptor.EmptyIndexes("other")) })
		require.NotNil(t, v)
	})

	t.Run("InvalidEnvironment", func(t *testing.T) {
		b := descriptor.NewIndexesBuilder("structure", "center", "species_center", "species_neighbor")
		b.AddInts(0, 1, 1, 1)
		v := violation(func() { c.CheckEnvironments(b.Finish(), testutil.Systems("water")) })
		require.NotNil(t, v)
		assert.Contains(t, v.Message, "is not a valid environment")
	})
}

func TestSortedDistancesParallel(t *testing.T) {
	rng := testutil.NewRNG(4711)
	systems := rng.RandomSystems(6, 12, 4, []int{1, 6, 8})

	params := SortedDistancesParameters{Cutoff: 2.5, MaxNeighbors: 4}
	sequential := compute(NewSortedDistances(params), systems, nil, nil)

	parallel := NewSortedDistances(params)
	parallel.SetWorkers(4)
	assert.Equal(t, 4, parallel.Workers())
	got := compute(parallel, systems, nil, nil)

	assert.True(t, sequential.Values().Equal(got.Values()))
}

func TestDummyCalculator(t *testing.T) {
	params := DummyParameters{Cutoff: 1.5, Delta: 9, Name: "test", Gradients: true}
	c := NewDummyCalculator(params)
	assert.Equal(t, "dummy test calculator with cutoff: 1.5 - delta: 9 - name: test - gradients: true", c.Name())
	assert.JSONEq(t, `{"cutoff":1.5,"delta":9,"name":"test","gradients":true}`, c.Parameters())

	d := compute(c, testutil.Systems("water"), nil, nil)
	require.Equal(t, 3, d.Values().Rows())

	h1 := 0.75545 - 0.58895
	h2 := -0.75545 - 0.58895
	assert.InDeltaSlice(t, []float64{9, h1 + h2}, d.Values().Row(0), 1e-12)
	assert.InDeltaSlice(t, []float64{10, h1}, d.Values().Row(1), 1e-12)
	assert.InDeltaSlice(t, []float64{11, h2}, d.Values().Row(2), 1e-12)

	require.True(t, d.HasGradients())
	assert.Equal(t, 12, d.Gradients().Rows())
	for i := 0; i < d.Gradients().Rows(); i++ {
		assert.Equal(t, []float64{0, 1}, d.Gradients().Row(i))
	}

	t.Run("PartialFeatures", func(t *testing.T) {
		b := descriptor.NewIndexesBuilder("index_delta", "x_y_z")
		b.AddInts(0, 1)
		d := compute(NewDummyCalculator(params), testutil.Systems("water"), nil, b.Finish())
		assert.InDelta(t, h1, d.Values().At(1, 0), 1e-12)
		assert.Equal(t, []float64{1}, d.Gradients().Row(0))
	})

	t.Run("WithoutGradients", func(t *testing.T) {
		p := params
		p.Gradients = false
		d := compute(NewDummyCalculator(p), testutil.Systems("water", "methane"), nil, nil)
		assert.False(t, d.HasGradients())
		assert.Equal(t, 8, d.Values().Rows())
	})
}

func TestSplitBySystem(t *testing.T) {
	b := descriptor.NewIndexesBuilder("structure", "center")
	b.AddInts(0, 0)
	b.AddInts(0, 1)
	b.AddInts(2, 0)
	blocks := SplitBySystem(b.Finish(), 3)
	assert.Equal(t, []SystemRows{{System: 0, Start: 0, End: 2}, {System: 2, Start: 2, End: 3}}, blocks)

	assert.Nil(t, SplitBySystem(descriptor.EmptyIndexes("structure"), 3))

	b.AddInts(1, 0)
	b.AddInts(0, 0)
	v := violation(func() { SplitBySystem(b.Finish(), 3) })
	require.NotNil(t, v)
	assert.Contains(t, v.Message, "not contiguous")

	b.AddInts(5, 0)
	v = violation(func() { SplitBySystem(b.Finish(), 3) })
	require.NotNil(t, v)
}

func TestForEachSystemPanics(t *testing.T) {
	blocks := []SystemRows{{System: 0}, {System: 1}, {System: 2}}
	assert.PanicsWithValue(t, "boom", func() {
		ForEachSystem(2, blocks, func(b SystemRows) {
			if b.System == 1 {
				panic("boom")
			}
		})
	})

	var seen [3]bool
	ForEachSystem(3, blocks, func(b SystemRows) { seen[b.System] = true })
	assert.Equal(t, [3]bool{true, true, true}, seen)
}
