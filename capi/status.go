package capi

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rascal"
)

// Status is the result code of every boundary call.
type Status int32

const (
	// StatusSuccess means the call completed.
	StatusSuccess Status = 0
	// StatusInvalidParameter reports a recoverable caller error.
	StatusInvalidParameter Status = 1
	// StatusInternalError reports a recovered panic or an unexpected failure.
	StatusInternalError Status = 255
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusInternalError:
		return "internal error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// ErrNullPointer is returned when a required handle, buffer or string is nil.
var ErrNullPointer = fmt.Errorf("%w: got a null pointer", rascal.ErrInvalidParameter)

// ErrFreedHandle is returned when a handle is used after FreeCalculator.
var ErrFreedHandle = fmt.Errorf("%w: calculator handle was already freed", rascal.ErrInvalidParameter)

// BufferTooSmallError is returned when a string does not fit a caller buffer.
// Available excludes the byte reserved for the NUL terminator.
type BufferTooSmallError struct {
	Required  int
	Available int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("string buffer is not big enough: got space for %d characters, but we need to write %d",
		e.Available, e.Required)
}

func (e *BufferTooSmallError) Is(target error) bool { return target == rascal.ErrInvalidParameter }

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, rascal.ErrInvalidParameter):
		return StatusInvalidParameter
	default:
		return StatusInternalError
	}
}
