package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/rascal/codec"
	"github.com/hupe1980/rascal/descriptor"
)

const (
	metaFeatures = "rascal.features"
	metaSamples  = "rascal.samples"
)

// ErrMissingMetadata is returned when an input lacks the index set metadata.
var ErrMissingMetadata = errors.New("export: missing rascal index metadata")

// indexesDoc is the metadata form of an index set. Values keep their tag:
// "u:<uint>" or "f:<float>".
type indexesDoc struct {
	Names  []string   `json:"names"`
	Values [][]string `json:"values"`
}

func encodeIndexes(x *descriptor.Indexes) (string, error) {
	doc := indexesDoc{Names: x.Names(), Values: make([][]string, 0, x.Count())}
	for _, tuple := range x.All() {
		row := make([]string, len(tuple))
		for i, v := range tuple {
			row[i] = formatValue(v)
		}
		doc.Values = append(doc.Values, row)
	}
	return marshalDoc(&doc)
}

func decodeIndexes(s string) (*descriptor.Indexes, error) {
	var doc indexesDoc
	if err := unmarshalDoc(s, &doc); err != nil {
		return nil, err
	}
	b := newTupleSet(doc.Names...)
	for _, row := range doc.Values {
		tuple := make([]descriptor.IndexValue, len(row))
		for i, cell := range row {
			v, err := parseValue(cell)
			if err != nil {
				return nil, err
			}
			tuple[i] = v
		}
		if err := b.add(tuple); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

func marshalDoc(v any) (string, error) {
	data, err := codec.Default.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("export: encode metadata: %w", err)
	}
	return string(data), nil
}

func unmarshalDoc(s string, v any) error {
	if err := codec.Default.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("export: decode metadata: %w", err)
	}
	return nil
}

func formatValue(v descriptor.IndexValue) string {
	if v.IsFloat() {
		return "f:" + strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	}
	return "u:" + strconv.FormatUint(v.Uint64(), 10)
}

func parseValue(s string) (descriptor.IndexValue, error) {
	tag, raw, ok := strings.Cut(s, ":")
	if ok {
		switch tag {
		case "u":
			if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
				return descriptor.Uint(u), nil
			}
		case "f":
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return descriptor.Float(f), nil
			}
		}
	}
	return descriptor.IndexValue{}, fmt.Errorf("export: invalid index value %q", s)
}

// Label renders a feature tuple as "name=value,...".
func Label(names []string, tuple []descriptor.IndexValue) string {
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(tuple[i].String())
	}
	return sb.String()
}

// tupleSet wraps IndexesBuilder with error returns for untrusted input.
type tupleSet struct {
	b *descriptor.IndexesBuilder
}

func newTupleSet(names ...string) *tupleSet {
	return &tupleSet{b: descriptor.NewIndexesBuilder(names...)}
}

func (s *tupleSet) add(tuple []descriptor.IndexValue) error {
	if len(tuple) != s.b.Size() {
		return fmt.Errorf("export: index tuple has %d values, expected %d", len(tuple), s.b.Size())
	}
	if s.b.Contains(tuple) {
		return fmt.Errorf("export: duplicate index tuple %v", tuple)
	}
	s.b.Add(tuple...)
	return nil
}

func (s *tupleSet) finish() *descriptor.Indexes { return s.b.Finish() }
