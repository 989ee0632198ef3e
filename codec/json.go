package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is the standard-library JSON codec.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// UnmarshalStrict decodes the JSON data into v and fails on unknown fields.
func (JSON) UnmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for parameter documents and manifests.
var Default Codec = GoJSON{}
