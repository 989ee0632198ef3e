package rascal

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched (errors.Is) by every recoverable error of
// this module: unknown calculators, malformed parameters and malformed
// selections.
var ErrInvalidParameter = errors.New("invalid parameter")

// UnknownCalculatorError is returned when no factory is registered for a name.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return fmt.Sprintf("unknown calculator with name '%s'", e.Name)
}

func (e *UnknownCalculatorError) Is(target error) bool { return target == ErrInvalidParameter }

// DuplicateCalculatorError is returned when a name is registered twice.
type DuplicateCalculatorError struct {
	Name string
}

func (e *DuplicateCalculatorError) Error() string {
	return fmt.Sprintf("a calculator with name '%s' is already registered", e.Name)
}

func (e *DuplicateCalculatorError) Is(target error) bool { return target == ErrInvalidParameter }

// ParameterError indicates a parameter document that could not be decoded or
// failed validation.
//
// The original underlying error can be accessed via errors.Unwrap.
type ParameterError struct {
	Calculator string
	cause      error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameters for calculator '%s': %v", e.Calculator, e.cause)
}

func (e *ParameterError) Unwrap() error { return e.cause }

func (e *ParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// SelectionSizeError indicates a flat selection whose length is not a
// multiple of the target arity.
type SelectionSizeError struct {
	Target   string // "features" or "samples"
	Expected int
	Actual   int
}

func (e *SelectionSizeError) Error() string {
	return fmt.Sprintf("wrong size for partial %s list, expected a multiple of %d, got %d",
		e.Target, e.Expected, e.Actual)
}

func (e *SelectionSizeError) Is(target error) bool { return target == ErrInvalidParameter }

// DuplicateSelectionError indicates a flat selection listing a tuple twice.
type DuplicateSelectionError struct {
	Target string
	Row    int
}

func (e *DuplicateSelectionError) Error() string {
	return fmt.Sprintf("duplicate entry at position %d of partial %s list", e.Row, e.Target)
}

func (e *DuplicateSelectionError) Is(target error) bool { return target == ErrInvalidParameter }
