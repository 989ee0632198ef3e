// Package codec centralizes the encoding of parameter documents and archive
// manifests.
//
// Calculator parameters are cached verbatim as the canonical parameter string,
// so changing the default codec changes what Parameters() reports for newly
// built calculators.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// StrictCodec is implemented by codecs that can reject unknown fields.
type StrictCodec interface {
	Codec
	UnmarshalStrict(data []byte, v any) error
}

// ByName returns a built-in codec by its stable name.
//
// Archive manifests store the codec name so they can be decoded later.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// UnmarshalStrict decodes data into v, rejecting unknown fields when c
// supports it.
func UnmarshalStrict(c Codec, data []byte, v any) error {
	if c == nil {
		c = Default
	}
	if s, ok := c.(StrictCodec); ok {
		return s.UnmarshalStrict(data, v)
	}
	return c.Unmarshal(data, v)
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
