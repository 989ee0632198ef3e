package descriptor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rascal/dense"
)

// ErrShapeMismatch is returned by FromParts when matrix shapes disagree with
// their index sets.
var ErrShapeMismatch = errors.New("descriptor: shape mismatch")

// Descriptor is the dense output of a calculator.
//
// Values has one row per sample and one column per feature. When gradients
// are prepared, Gradients has one row per gradient sample and the same
// columns.
type Descriptor struct {
	samples  *Indexes
	features *Indexes
	values   *dense.Matrix

	gradientSamples *Indexes
	gradients       *dense.Matrix
}

// New returns an empty descriptor.
func New() *Descriptor {
	return &Descriptor{
		samples:  EmptyIndexes(),
		features: EmptyIndexes(),
		values:   dense.New(0, 0),
	}
}

// FromParts assembles a descriptor from decoded parts. gradientSamples and
// gradients must be both nil or both set.
func FromParts(samples, features *Indexes, values *dense.Matrix, gradientSamples *Indexes, gradients *dense.Matrix) (*Descriptor, error) {
	if values.Rows() != samples.Count() || values.Cols() != features.Count() {
		return nil, fmt.Errorf("%w: values are %dx%d for %d samples and %d features",
			ErrShapeMismatch, values.Rows(), values.Cols(), samples.Count(), features.Count())
	}
	if (gradientSamples == nil) != (gradients == nil) {
		return nil, fmt.Errorf("%w: gradient samples and gradients must be set together", ErrShapeMismatch)
	}
	if gradients != nil && (gradients.Rows() != gradientSamples.Count() || gradients.Cols() != features.Count()) {
		return nil, fmt.Errorf("%w: gradients are %dx%d for %d gradient samples and %d features",
			ErrShapeMismatch, gradients.Rows(), gradients.Cols(), gradientSamples.Count(), features.Count())
	}
	return &Descriptor{
		samples:         samples,
		features:        features,
		values:          values,
		gradientSamples: gradientSamples,
		gradients:       gradients,
	}, nil
}

// Prepare reshapes the descriptor for samples × features and drops any
// gradients. Values are zeroed.
func (d *Descriptor) Prepare(samples, features *Indexes) {
	d.samples = samples
	d.features = features
	d.values.Reset(samples.Count(), features.Count())
	d.gradientSamples = nil
	d.gradients = nil
}

// PrepareGradients is Prepare plus a zeroed gradient matrix with one row per
// gradient sample.
func (d *Descriptor) PrepareGradients(samples, gradientSamples, features *Indexes) {
	grads := d.gradients
	d.Prepare(samples, features)
	if grads == nil {
		grads = dense.New(0, 0)
	}
	grads.Reset(gradientSamples.Count(), features.Count())
	d.gradientSamples = gradientSamples
	d.gradients = grads
}

// Samples returns the row index set.
func (d *Descriptor) Samples() *Indexes { return d.samples }

// Features returns the column index set.
func (d *Descriptor) Features() *Indexes { return d.features }

// Values returns the value matrix. Calculators write into it in place.
func (d *Descriptor) Values() *dense.Matrix { return d.values }

// HasGradients reports whether gradients were prepared.
func (d *Descriptor) HasGradients() bool { return d.gradients != nil }

// GradientSamples returns the gradient row index set, or nil.
func (d *Descriptor) GradientSamples() *Indexes { return d.gradientSamples }

// Gradients returns the gradient matrix, or nil.
func (d *Descriptor) Gradients() *dense.Matrix { return d.gradients }
