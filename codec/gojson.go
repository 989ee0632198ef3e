package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON struct{}

// Marshal encodes the value to JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// UnmarshalStrict decodes the JSON data into v and fails on unknown fields.
func (GoJSON) UnmarshalStrict(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }
