package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/hupe1980/rascal/dense"
	"github.com/hupe1980/rascal/descriptor"
)

// Schema returns the Arrow schema ToRecord produces for d.
func Schema(d *descriptor.Descriptor) (*arrow.Schema, error) {
	samples := d.Samples()
	features := d.Features()

	featureMeta, err := encodeIndexes(features)
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, 0, samples.Size()+features.Count())
	for j, name := range samples.Names() {
		typ := arrow.DataType(arrow.PrimitiveTypes.Uint64)
		if floatColumn(samples, j) {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ})
	}
	names := features.Names()
	for _, tuple := range features.All() {
		fields = append(fields, arrow.Field{Name: Label(names, tuple), Type: arrow.PrimitiveTypes.Float64})
	}

	meta := arrow.NewMetadata([]string{metaFeatures}, []string{featureMeta})
	return arrow.NewSchema(fields, &meta), nil
}

// ToRecord converts the values of d into an Arrow record. The caller must
// Release the record.
func ToRecord(d *descriptor.Descriptor, optFns ...Option) (arrow.Record, error) {
	opts := applyOptions(optFns)

	schema, err := Schema(d)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(opts.mem, schema)
	defer b.Release()

	samples := d.Samples()
	rows := samples.Count()
	for j := range samples.Size() {
		switch fb := b.Field(j).(type) {
		case *array.Uint64Builder:
			fb.Reserve(rows)
			for _, tuple := range samples.All() {
				fb.Append(tuple[j].Uint64())
			}
		case *array.Float64Builder:
			fb.Reserve(rows)
			for _, tuple := range samples.All() {
				fb.Append(tuple[j].Float64())
			}
		}
	}

	values := d.Values()
	for j := range d.Features().Count() {
		b.Field(samples.Size() + j).(*array.Float64Builder).AppendValues(values.Column(j), nil)
	}

	return b.NewRecord(), nil
}

// FromRecord rebuilds a descriptor (without gradients) from a record
// produced by ToRecord.
func FromRecord(rec arrow.Record) (*descriptor.Descriptor, error) {
	dec, err := newRecordDecoder(rec.Schema())
	if err != nil {
		return nil, err
	}
	if err := dec.append(rec); err != nil {
		return nil, err
	}
	return dec.finish()
}

// WriteArrow writes the values of d as an Arrow IPC stream.
func WriteArrow(w io.Writer, d *descriptor.Descriptor, optFns ...Option) error {
	opts := applyOptions(optFns)

	rec, err := ToRecord(d, optFns...)
	if err != nil {
		return err
	}
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(opts.mem))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("export: write arrow record: %w", err)
	}
	return writer.Close()
}

// ReadArrow reads an Arrow IPC stream written by WriteArrow. Multiple record
// batches are concatenated.
func ReadArrow(r io.Reader, optFns ...Option) (*descriptor.Descriptor, error) {
	opts := applyOptions(optFns)

	reader, err := ipc.NewReader(r, ipc.WithAllocator(opts.mem))
	if err != nil {
		return nil, fmt.Errorf("export: open arrow stream: %w", err)
	}
	defer reader.Release()

	dec, err := newRecordDecoder(reader.Schema())
	if err != nil {
		return nil, err
	}
	for reader.Next() {
		if err := dec.append(reader.Record()); err != nil {
			return nil, err
		}
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("export: read arrow stream: %w", err)
	}
	return dec.finish()
}

type recordDecoder struct {
	features   *descriptor.Indexes
	numSamples int
	samples    *tupleSet
	values     []float64
}

func newRecordDecoder(schema *arrow.Schema) (*recordDecoder, error) {
	meta := schema.Metadata()
	idx := meta.FindKey(metaFeatures)
	if idx < 0 {
		return nil, ErrMissingMetadata
	}
	features, err := decodeIndexes(meta.Values()[idx])
	if err != nil {
		return nil, err
	}

	numSamples := schema.NumFields() - features.Count()
	if numSamples < 0 {
		return nil, fmt.Errorf("export: schema has %d fields for %d features", schema.NumFields(), features.Count())
	}
	names := make([]string, numSamples)
	for j := range numSamples {
		names[j] = schema.Field(j).Name
	}

	return &recordDecoder{
		features:   features,
		numSamples: numSamples,
		samples:    newTupleSet(names...),
	}, nil
}

func (dec *recordDecoder) append(rec arrow.Record) error {
	rows := int(rec.NumRows())
	nf := dec.features.Count()

	for i := range rows {
		tuple := make([]descriptor.IndexValue, dec.numSamples)
		for j := range dec.numSamples {
			v, err := sampleValue(rec.Column(j), i)
			if err != nil {
				return fmt.Errorf("export: sample column %q: %w", rec.ColumnName(j), err)
			}
			tuple[j] = v
		}
		if err := dec.samples.add(tuple); err != nil {
			return err
		}
	}

	start := len(dec.values)
	dec.values = append(dec.values, make([]float64, rows*nf)...)
	block := dec.values[start:]
	for j := range nf {
		col, ok := rec.Column(dec.numSamples + j).(*array.Float64)
		if !ok {
			return fmt.Errorf("export: feature column %q is %s, expected float64",
				rec.ColumnName(dec.numSamples+j), rec.Column(dec.numSamples+j).DataType())
		}
		for i := range rows {
			block[i*nf+j] = col.Value(i)
		}
	}
	return nil
}

func (dec *recordDecoder) finish() (*descriptor.Descriptor, error) {
	samples := dec.samples.finish()
	values := dense.New(samples.Count(), dec.features.Count())
	copy(values.Data(), dec.values)
	return descriptor.FromParts(samples, dec.features, values, nil, nil)
}

func sampleValue(col arrow.Array, i int) (descriptor.IndexValue, error) {
	switch c := col.(type) {
	case *array.Uint64:
		return descriptor.Uint(c.Value(i)), nil
	case *array.Float64:
		return descriptor.Float(c.Value(i)), nil
	case *array.Int64:
		if v := c.Value(i); v >= 0 {
			return descriptor.Uint(uint64(v)), nil
		}
		return descriptor.IndexValue{}, fmt.Errorf("negative value at row %d", i)
	default:
		return descriptor.IndexValue{}, fmt.Errorf("unsupported type %s", col.DataType())
	}
}

// floatColumn reports whether any value of column j is float tagged.
func floatColumn(x *descriptor.Indexes, j int) bool {
	for _, tuple := range x.All() {
		if tuple[j].IsFloat() {
			return true
		}
	}
	return false
}
