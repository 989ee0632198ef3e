package capi

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/hupe1980/rascal"
)

// CopyString copies s into buf followed by a NUL byte. Nothing is written
// when s plus the terminator does not fit.
func CopyString(s string, buf []byte) error {
	if buf == nil {
		return ErrNullPointer
	}
	if len(buf) == 0 {
		return &BufferTooSmallError{Required: len(s), Available: 0}
	}
	if n := min(len(s), len(buf)-1); n < len(s) {
		return &BufferTooSmallError{Required: len(s), Available: n}
	}
	copy(buf, s)
	buf[len(s)] = 0
	return nil
}

// GoString reads a NUL-terminated UTF-8 string. Without a terminator the
// whole slice is used.
func GoString(b []byte) (string, error) {
	if b == nil {
		return "", ErrNullPointer
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", rascal.ErrInvalidParameter)
	}
	return string(b), nil
}

// CString returns s as a NUL-terminated byte slice.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
