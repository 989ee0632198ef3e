// Package capi is the handle-based boundary used by foreign callers.
//
// Every entry point returns a Status instead of an error and never lets a
// panic escape: recovered panics become StatusInternalError. The message of
// the most recent failure is available from API.LastError.
//
// Raw (pointer, count) pairs are modelled as length-tagged views (FloatView)
// which are bounds checked once, when a call enters the boundary. C strings
// are NUL-terminated byte slices; a nil slice stands for a null pointer.
package capi
