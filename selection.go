package rascal

import (
	"github.com/hupe1980/rascal/calculators"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/system"
)

type selectionKind uint8

const (
	selectAll selectionKind = iota
	selectExplicit
	selectFlat
)

// SelectedIndexes is the set of samples or features a caller wants computed.
// The zero value selects everything.
type SelectedIndexes struct {
	kind     selectionKind
	explicit *descriptor.Indexes
	flat     []float64
}

// SelectAll selects the full space.
func SelectAll() SelectedIndexes { return SelectedIndexes{} }

// Select selects exactly the tuples of x, in order. A nil x selects
// everything.
func Select(x *descriptor.Indexes) SelectedIndexes {
	if x == nil {
		return SelectAll()
	}
	return SelectedIndexes{kind: selectExplicit, explicit: x}
}

// SelectFlat selects tuples given as one flat, row-major array. Its length
// must be a multiple of the arity of the target space. A nil slice selects
// everything.
func SelectFlat(values []float64) SelectedIndexes {
	if values == nil {
		return SelectAll()
	}
	return SelectedIndexes{kind: selectFlat, flat: values}
}

// IsAll reports whether the full space is selected.
func (s SelectedIndexes) IsAll() bool { return s.kind == selectAll }

func (s SelectedIndexes) intoFeatures(impl calculators.CalculatorBase) (*descriptor.Indexes, error) {
	var features *descriptor.Indexes
	switch s.kind {
	case selectExplicit:
		features = s.explicit
	case selectFlat:
		var err error
		if features, err = fromFlat("features", impl.FeaturesNames(), s.flat); err != nil {
			return nil, err
		}
	default:
		features = impl.Features()
	}

	impl.CheckFeatures(features)
	return features, nil
}

func (s SelectedIndexes) intoSamples(impl calculators.CalculatorBase, systems []system.System) (*descriptor.Indexes, error) {
	var samples *descriptor.Indexes
	switch s.kind {
	case selectExplicit:
		samples = s.explicit
	case selectFlat:
		var err error
		if samples, err = fromFlat("samples", impl.Environments().Names(), s.flat); err != nil {
			return nil, err
		}
	default:
		samples = impl.Environments().Indexes(systems)
	}

	impl.CheckEnvironments(samples, systems)
	return samples, nil
}

func fromFlat(target string, names []string, values []float64) (*descriptor.Indexes, error) {
	b := descriptor.NewIndexesBuilder(names...)
	arity := b.Size()
	if arity == 0 || len(values)%arity != 0 {
		return nil, &SelectionSizeError{Target: target, Expected: arity, Actual: len(values)}
	}

	tuple := make([]descriptor.IndexValue, arity)
	for row := 0; row*arity < len(values); row++ {
		for i, v := range values[row*arity : (row+1)*arity] {
			tuple[i] = descriptor.Float(v)
		}
		if b.Contains(tuple) {
			return nil, &DuplicateSelectionError{Target: target, Row: row}
		}
		b.Add(tuple...)
	}
	return b.Finish(), nil
}

// CalculationOptions configures one Compute call. The zero value computes
// every sample and feature on the systems as given.
type CalculationOptions struct {
	// UseNativeSystem copies every system into a system.SimpleSystem before
	// computing.
	UseNativeSystem bool
	// SelectedSamples restricts the rows of the descriptor.
	SelectedSamples SelectedIndexes
	// SelectedFeatures restricts the columns of the descriptor.
	SelectedFeatures SelectedIndexes
}
