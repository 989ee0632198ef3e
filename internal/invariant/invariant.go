// Package invariant reports violated internal contracts.
//
// A violation is a defect in a calculator, an environment definition or in the
// caller logic feeding them; it is never a recoverable error. Violations panic
// with a *Violation value so that a foreign boundary can recognize them.
package invariant

import "fmt"

// Violation is the panic value raised by Check and Fail.
type Violation struct {
	Message string
}

func (v *Violation) Error() string {
	return "invariant violation: " + v.Message
}

// Check panics with a *Violation if cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}

// Fail panics with a *Violation.
func Fail(format string, args ...any) {
	panic(&Violation{Message: fmt.Sprintf(format, args...)})
}
