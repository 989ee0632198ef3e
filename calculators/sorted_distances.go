package calculators

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/rascal/codec"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/system"
)

// SortedDistancesParameters configures SortedDistances.
type SortedDistancesParameters struct {
	Cutoff       float64 `json:"cutoff" yaml:"cutoff" validate:"gt=0"`
	MaxNeighbors int     `json:"max_neighbors" yaml:"max_neighbors" validate:"gt=0"`
}

// SortedDistances describes every center by the sorted distances to its
// neighbors of one species, truncated or padded with the cutoff to exactly
// MaxNeighbors entries.
type SortedDistances struct {
	Parallelism
	params SortedDistancesParameters
}

// NewSortedDistances creates a SortedDistances calculator.
func NewSortedDistances(params SortedDistancesParameters) *SortedDistances {
	return &SortedDistances{params: params}
}

// Name implements CalculatorBase.
func (c *SortedDistances) Name() string { return "sorted distances vector" }

// Parameters implements CalculatorBase.
func (c *SortedDistances) Parameters() string {
	return string(codec.MustMarshal(codec.Default, c.params))
}

// FeaturesNames implements CalculatorBase.
func (c *SortedDistances) FeaturesNames() []string { return []string{"neighbor"} }

// Features implements CalculatorBase.
func (c *SortedDistances) Features() *descriptor.Indexes {
	b := descriptor.NewIndexesBuilder(c.FeaturesNames()...)
	for i := 0; i < c.params.MaxNeighbors; i++ {
		b.AddInts(i)
	}
	return b.Finish()
}

// Environments implements CalculatorBase.
func (c *SortedDistances) Environments() descriptor.EnvironmentIndexes {
	return descriptor.NewAtomSpeciesEnvironment(c.params.Cutoff)
}

// ComputeGradients implements CalculatorBase.
func (c *SortedDistances) ComputeGradients() bool { return false }

// CheckFeatures implements CalculatorBase.
func (c *SortedDistances) CheckFeatures(features *descriptor.Indexes) {
	checkNames(features, c.FeaturesNames())
	checkSubset(features, c.Features(), "feature")
}

// CheckEnvironments implements CalculatorBase. The full sample space is
// recomputed on every call.
func (c *SortedDistances) CheckEnvironments(samples *descriptor.Indexes, systems []system.System) {
	env := c.Environments()
	checkNames(samples, env.Names())
	checkSubset(samples, env.Indexes(systems), "environment")
}

type speciesPair struct {
	center, neighbor int
}

// Compute implements CalculatorBase.
func (c *SortedDistances) Compute(systems []system.System, d *descriptor.Descriptor) {
	columns := c.requestedColumns(d.Features())
	samples := d.Samples()
	values := d.Values()

	ForEachSystem(c.Workers(), SplitBySystem(samples, len(systems)), func(rows SystemRows) {
		sys := systems[rows.System]

		// one distance list per center for each requested species pair
		centers := roaring.New()
		distances := make(map[speciesPair][][]float64)
		for row := rows.Start; row < rows.End; row++ {
			sample := samples.At(row)
			centers.Add(uint32(sample[1].Usize()))
			key := speciesPair{sample[2].Usize(), sample[3].Usize()}
			if _, ok := distances[key]; !ok {
				distances[key] = make([][]float64, sys.Size())
			}
		}

		sys.ComputeNeighbors(c.params.Cutoff)
		species := sys.Species()
		for _, pair := range sys.Pairs() {
			i, j := pair.First, pair.Second
			r := pair.Distance()
			if centers.Contains(uint32(i)) {
				if lists, ok := distances[speciesPair{species[i], species[j]}]; ok {
					lists[i] = append(lists[i], r)
				}
			}
			if centers.Contains(uint32(j)) {
				if lists, ok := distances[speciesPair{species[j], species[i]}]; ok {
					lists[j] = append(lists[j], r)
				}
			}
		}

		for _, lists := range distances {
			it := centers.Iterator()
			for it.HasNext() {
				center := int(it.Next())
				lists[center] = c.sortAndPad(lists[center])
			}
		}

		for row := rows.Start; row < rows.End; row++ {
			sample := samples.At(row)
			center := sample[1].Usize()
			vector := distances[speciesPair{sample[2].Usize(), sample[3].Usize()}][center]

			out := values.Row(row)
			if columns == nil {
				copy(out, vector)
				continue
			}
			for i, neighbor := range columns {
				out[i] = vector[neighbor]
			}
		}
	})
}

// requestedColumns returns nil when features is the full feature space in
// its natural order, and the neighbor slot of every column otherwise.
func (c *SortedDistances) requestedColumns(features *descriptor.Indexes) []int {
	columns := make([]int, features.Count())
	full := features.Count() == c.params.MaxNeighbors
	for i, tuple := range features.All() {
		columns[i] = tuple[0].Usize()
		full = full && columns[i] == i
	}
	if full {
		return nil
	}
	return columns
}

func (c *SortedDistances) sortAndPad(list []float64) []float64 {
	slices.Sort(list)
	if len(list) >= c.params.MaxNeighbors {
		return list[:c.params.MaxNeighbors]
	}
	for len(list) < c.params.MaxNeighbors {
		list = append(list, c.params.Cutoff)
	}
	return list
}
