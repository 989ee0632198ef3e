package calculators

import (
	"fmt"

	"github.com/hupe1980/rascal/codec"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/internal/invariant"
	"github.com/hupe1980/rascal/system"
)

// DummyParameters configures DummyCalculator.
type DummyParameters struct {
	Cutoff    float64 `json:"cutoff" yaml:"cutoff" validate:"gt=0"`
	Delta     int     `json:"delta" yaml:"delta"`
	Name      string  `json:"name" yaml:"name"`
	Gradients bool    `json:"gradients" yaml:"gradients"`
}

// DummyCalculator produces simple, easily checked values for tests of the
// compute pipeline. It has two features: (1, 0) is the center index plus
// Delta, and (0, 1) is the sum of x + y + z over the center and its
// neighbors. Its gradients are 0 and 1 respectively.
type DummyCalculator struct {
	Parallelism
	params DummyParameters
}

// NewDummyCalculator creates a DummyCalculator.
func NewDummyCalculator(params DummyParameters) *DummyCalculator {
	return &DummyCalculator{params: params}
}

// Name implements CalculatorBase.
func (c *DummyCalculator) Name() string {
	return fmt.Sprintf("dummy test calculator with cutoff: %v - delta: %d - name: %s - gradients: %t",
		c.params.Cutoff, c.params.Delta, c.params.Name, c.params.Gradients)
}

// Parameters implements CalculatorBase.
func (c *DummyCalculator) Parameters() string {
	return string(codec.MustMarshal(codec.Default, c.params))
}

// FeaturesNames implements CalculatorBase.
func (c *DummyCalculator) FeaturesNames() []string { return []string{"index_delta", "x_y_z"} }

// Features implements CalculatorBase.
func (c *DummyCalculator) Features() *descriptor.Indexes {
	b := descriptor.NewIndexesBuilder(c.FeaturesNames()...)
	b.AddInts(1, 0)
	b.AddInts(0, 1)
	return b.Finish()
}

// Environments implements CalculatorBase.
func (c *DummyCalculator) Environments() descriptor.EnvironmentIndexes {
	return descriptor.NewAtomEnvironment(c.params.Cutoff)
}

// ComputeGradients implements CalculatorBase.
func (c *DummyCalculator) ComputeGradients() bool { return c.params.Gradients }

// CheckFeatures implements CalculatorBase.
func (c *DummyCalculator) CheckFeatures(features *descriptor.Indexes) {
	checkNames(features, c.FeaturesNames())
	checkSubset(features, c.Features(), "feature")
}

// CheckEnvironments implements CalculatorBase.
func (c *DummyCalculator) CheckEnvironments(samples *descriptor.Indexes, systems []system.System) {
	env := c.Environments()
	checkNames(samples, env.Names())
	checkSubset(samples, env.Indexes(systems), "environment")
}

// Compute implements CalculatorBase.
func (c *DummyCalculator) Compute(systems []system.System, d *descriptor.Descriptor) {
	features := d.Features()
	indexDelta := make([]bool, features.Count())
	for i, tuple := range features.All() {
		indexDelta[i] = tuple[0].Usize() == 1
	}

	samples := d.Samples()
	values := d.Values()
	ForEachSystem(c.Workers(), SplitBySystem(samples, len(systems)), func(rows SystemRows) {
		sys := systems[rows.System]
		sys.ComputeNeighbors(c.params.Cutoff)
		positions := sys.Positions()

		for row := rows.Start; row < rows.End; row++ {
			center := samples.At(row)[1].Usize()
			invariant.Check(center < sys.Size(), "center %d out of range for system %d", center, rows.System)

			sum := positions[center].Sum()
			for _, pair := range sys.PairsContaining(center) {
				other := pair.Second
				if other == center {
					other = pair.First
				}
				sum += positions[other].Sum()
			}

			out := values.Row(row)
			for i := range out {
				if indexDelta[i] {
					out[i] = float64(center + c.params.Delta)
				} else {
					out[i] = sum
				}
			}
		}
	})

	if !d.HasGradients() {
		return
	}
	grads := d.Gradients()
	for row := 0; row < grads.Rows(); row++ {
		out := grads.Row(row)
		for i := range out {
			if indexDelta[i] {
				out[i] = 0
			} else {
				out[i] = 1
			}
		}
	}
}
