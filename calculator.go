package rascal

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/rascal/calculators"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/internal/invariant"
	"github.com/hupe1980/rascal/system"
)

// Calculator is a named, parameterized descriptor algorithm.
//
// A Calculator is not safe for concurrent Compute calls.
type Calculator struct {
	impl       calculators.CalculatorBase
	parameters string

	logger  *Logger
	metrics MetricsCollector
}

// NewCalculator creates the calculator registered under name in registry.
// parameters is decoded by the registered factory and cached verbatim.
func NewCalculator(registry *Registry, name, parameters string, optFns ...Option) (*Calculator, error) {
	opts := applyOptions(optFns)

	impl, err := registry.Create(name, parameters, opts.codec)
	opts.logger.LogCreate(context.Background(), name, err)
	opts.metricsCollector.RecordCreate(name, err)
	if err != nil {
		return nil, err
	}

	return newCalculator(impl, parameters, opts), nil
}

// FromImplementation wraps an existing implementation. The parameter string
// is taken from impl.Parameters().
func FromImplementation(impl calculators.CalculatorBase, optFns ...Option) *Calculator {
	return newCalculator(impl, impl.Parameters(), applyOptions(optFns))
}

func newCalculator(impl calculators.CalculatorBase, parameters string, opts options) *Calculator {
	if p, ok := impl.(calculators.ParallelCalculator); ok {
		p.SetWorkers(opts.workers)
	}
	return &Calculator{
		impl:       impl,
		parameters: parameters,
		logger:     opts.logger.WithCalculator(impl.Name()),
		metrics:    opts.metricsCollector,
	}
}

// Name returns the name of the underlying algorithm.
func (c *Calculator) Name() string { return c.impl.Name() }

// Parameters returns the parameter document used to create the calculator.
func (c *Calculator) Parameters() string { return c.parameters }

// Implementation returns the underlying algorithm.
func (c *Calculator) Implementation() calculators.CalculatorBase { return c.impl }

// Compute fills d for systems.
//
// Features are resolved first, then samples. Selection errors are returned
// and leave d untouched. Calling Compute without systems is a successful
// no-op.
func (c *Calculator) Compute(systems []system.System, d *descriptor.Descriptor, opts CalculationOptions) error {
	ctx := context.Background()
	if len(systems) == 0 {
		c.logger.WarnContext(ctx, "compute called without systems")
		return nil
	}

	start := time.Now()
	summary, err := c.compute(systems, d, opts)
	summary.Duration = time.Since(start)

	c.logger.LogCompute(ctx, len(systems), summary, err)
	c.metrics.RecordCompute(c.impl.Name(), len(systems), summary.Samples, summary.Duration, err)
	return err
}

func (c *Calculator) compute(systems []system.System, d *descriptor.Descriptor, opts CalculationOptions) (ComputeSummary, error) {
	features, err := opts.SelectedFeatures.intoFeatures(c.impl)
	if err != nil {
		return ComputeSummary{}, err
	}
	samples, err := opts.SelectedSamples.intoSamples(c.impl, systems)
	if err != nil {
		return ComputeSummary{}, err
	}

	if c.impl.ComputeGradients() {
		gradients, err := c.impl.Environments().GradientsFor(systems, samples)
		if errors.Is(err, descriptor.ErrGradientsNotSupported) {
			invariant.Fail("calculator %q needs gradients, but its environments do not support them", c.impl.Name())
		}
		invariant.Check(err == nil, "gradient samples: %v", err)
		d.PrepareGradients(samples, gradients, features)
	} else {
		d.Prepare(samples, features)
	}

	if opts.UseNativeSystem {
		systems = system.Natives(systems)
	}
	c.impl.Compute(systems, d)

	summary := ComputeSummary{Samples: samples.Count(), Features: features.Count()}
	if d.HasGradients() {
		summary.Gradients = d.GradientSamples().Count()
	}
	return summary, nil
}
