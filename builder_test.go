package rascal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal"
	"github.com/hupe1980/rascal/calculators"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/testutil"
)

func TestSortedDistancesBuilder(t *testing.T) {
	metrics := &rascal.BasicMetricsCollector{}
	base := rascal.SortedDistances(2.0)
	calc, err := base.MaxNeighbors(4).Workers(2).Logger(rascal.NoopLogger()).Metrics(metrics).Build()
	require.NoError(t, err)

	assert.JSONEq(t, `{"cutoff":2,"max_neighbors":4}`, calc.Parameters())
	assert.Equal(t, 2, calc.Implementation().(*calculators.SortedDistances).Workers())

	// builders are immutable
	other, err := base.Build()
	require.NoError(t, err)
	assert.JSONEq(t, `{"cutoff":2,"max_neighbors":8}`, other.Parameters())

	require.NoError(t, calc.Compute(testutil.Systems("methane"), descriptor.New(), rascal.CalculationOptions{}))
	assert.Equal(t, int64(1), metrics.GetStats().ComputeCount)

	_, err = rascal.SortedDistances(0).Build()
	require.ErrorIs(t, err, rascal.ErrInvalidParameter)
}

func TestDummyBuilder(t *testing.T) {
	calc, err := rascal.Dummy(1.5).Delta(3).Name("b").Gradients(true).Workers(1).Build()
	require.NoError(t, err)
	assert.Equal(t, "dummy test calculator with cutoff: 1.5 - delta: 3 - name: b - gradients: true", calc.Name())

	d := descriptor.New()
	require.NoError(t, calc.Compute(testutil.Systems("water"), d, rascal.CalculationOptions{}))
	assert.True(t, d.HasGradients())
	assert.Equal(t, 4.0, d.Values().At(1, 0))

	_, err = rascal.Dummy(-1).Build()
	require.ErrorIs(t, err, rascal.ErrInvalidParameter)
}
