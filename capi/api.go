package capi

import (
	"fmt"
	"sync"

	"github.com/hupe1980/rascal"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/system"
)

// FloatView is a length-tagged (pointer, count) pair. A nil Data is a null
// pointer and selects everything.
type FloatView struct {
	Data  []float64
	Count int
}

// View wraps a slice as a FloatView covering all of it.
func View(data []float64) FloatView {
	return FloatView{Data: data, Count: len(data)}
}

func (v FloatView) selection() (rascal.SelectedIndexes, error) {
	if v.Data == nil {
		return rascal.SelectAll(), nil
	}
	if v.Count < 0 || v.Count > len(v.Data) {
		return rascal.SelectedIndexes{}, fmt.Errorf("%w: view count %d exceeds %d available values",
			rascal.ErrInvalidParameter, v.Count, len(v.Data))
	}
	return rascal.SelectFlat(v.Data[:v.Count:v.Count]), nil
}

// Options is the flat calculation options record.
type Options struct {
	UseNativeSystem  bool
	SelectedSamples  FloatView
	SelectedFeatures FloatView
}

// Calculator is an opaque handle around one rascal.Calculator.
type Calculator struct {
	mu   sync.Mutex
	calc *rascal.Calculator
}

// API binds the boundary to a registry and calculator options.
type API struct {
	registry *rascal.Registry
	opts     []rascal.Option

	mu      sync.Mutex
	lastErr string
}

// New creates an API. A nil registry uses rascal.NewRegistry().
func New(registry *rascal.Registry, opts ...rascal.Option) *API {
	if registry == nil {
		registry = rascal.NewRegistry()
	}
	return &API{registry: registry, opts: opts}
}

// LastError returns the message of the most recent failed call.
func (a *API) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// guard runs fn, converting errors and panics into a Status.
func (a *API) guard(fn func() error) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			a.setLastError(fmt.Sprintf("internal error: %v", r))
			status = StatusInternalError
		}
	}()

	if err := fn(); err != nil {
		a.setLastError(err.Error())
		return statusOf(err)
	}
	return StatusSuccess
}

func (a *API) setLastError(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = msg
}

// NewCalculator creates a calculator from NUL-terminated name and parameter
// strings. It returns nil on any failure; see LastError.
func (a *API) NewCalculator(name, parameters []byte) *Calculator {
	var h *Calculator
	status := a.guard(func() error {
		n, err := GoString(name)
		if err != nil {
			return err
		}
		p, err := GoString(parameters)
		if err != nil {
			return err
		}
		calc, err := rascal.NewCalculator(a.registry, n, p, a.opts...)
		if err != nil {
			return err
		}
		h = &Calculator{calc: calc}
		return nil
	})
	if status != StatusSuccess {
		return nil
	}
	return h
}

// FreeCalculator releases a handle. Freeing nil succeeds.
func (a *API) FreeCalculator(h *Calculator) Status {
	return a.guard(func() error {
		if h == nil {
			return nil
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		h.calc = nil
		return nil
	})
}

// CalculatorName copies the calculator name into buf.
func (a *API) CalculatorName(h *Calculator, buf []byte) Status {
	return a.guard(func() error {
		return h.with(func(c *rascal.Calculator) error {
			return CopyString(c.Name(), buf)
		})
	})
}

// CalculatorParameters copies the canonical parameter document into buf.
func (a *API) CalculatorParameters(h *Calculator, buf []byte) Status {
	return a.guard(func() error {
		return h.with(func(c *rascal.Calculator) error {
			return CopyString(c.Parameters(), buf)
		})
	})
}

// Compute runs the calculator on the first count systems. A zero count is a
// success that leaves d untouched.
func (a *API) Compute(h *Calculator, d *descriptor.Descriptor, systems []system.System, count int, opts Options) Status {
	return a.guard(func() error {
		if count == 0 {
			return nil
		}
		if d == nil || systems == nil {
			return ErrNullPointer
		}
		if count < 0 || count > len(systems) {
			return fmt.Errorf("%w: systems count %d exceeds %d available systems",
				rascal.ErrInvalidParameter, count, len(systems))
		}

		samples, err := opts.SelectedSamples.selection()
		if err != nil {
			return err
		}
		features, err := opts.SelectedFeatures.selection()
		if err != nil {
			return err
		}

		return h.with(func(c *rascal.Calculator) error {
			return c.Compute(systems[:count], d, rascal.CalculationOptions{
				UseNativeSystem:  opts.UseNativeSystem,
				SelectedSamples:  samples,
				SelectedFeatures: features,
			})
		})
	})
}

func (h *Calculator) with(fn func(*rascal.Calculator) error) error {
	if h == nil {
		return ErrNullPointer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.calc == nil {
		return ErrFreedHandle
	}
	return fn(h.calc)
}
