package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/hupe1980/rascal/dense"
	"github.com/hupe1980/rascal/descriptor"
)

// SampleRow is one Parquet row: the sample tuple followed by its feature values.
type SampleRow struct {
	Sample []float64 `parquet:"sample"`
	Values []float64 `parquet:"values"`
}

// samplesDoc records sample names and the per-column value tag.
type samplesDoc struct {
	Names []string `json:"names"`
	Float []bool   `json:"float"`
}

// WriteParquet writes the values of d as zstd compressed Parquet.
func WriteParquet(w io.Writer, d *descriptor.Descriptor) error {
	samples := d.Samples()
	features := d.Features()

	featureMeta, err := encodeIndexes(features)
	if err != nil {
		return err
	}
	doc := samplesDoc{Names: samples.Names(), Float: make([]bool, samples.Size())}
	for j := range doc.Float {
		doc.Float[j] = floatColumn(samples, j)
	}
	sampleMeta, err := marshalDoc(&doc)
	if err != nil {
		return err
	}

	pw := parquet.NewGenericWriter[SampleRow](w,
		parquet.Compression(&parquet.Zstd),
		parquet.KeyValueMetadata(metaFeatures, featureMeta),
		parquet.KeyValueMetadata(metaSamples, sampleMeta),
	)

	values := d.Values()
	rows := make([]SampleRow, 0, samples.Count())
	for i, tuple := range samples.All() {
		sample := make([]float64, len(tuple))
		for j, v := range tuple {
			sample[j] = v.Float64()
		}
		rows = append(rows, SampleRow{Sample: sample, Values: values.Row(i)})
	}

	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("export: write parquet rows: %w", err)
	}
	return pw.Close()
}

// ReadParquet reads a file written by WriteParquet.
func ReadParquet(r io.ReaderAt, size int64) (*descriptor.Descriptor, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("export: open parquet: %w", err)
	}

	featureMeta, ok := pf.Lookup(metaFeatures)
	if !ok {
		return nil, ErrMissingMetadata
	}
	sampleMeta, ok := pf.Lookup(metaSamples)
	if !ok {
		return nil, ErrMissingMetadata
	}

	features, err := decodeIndexes(featureMeta)
	if err != nil {
		return nil, err
	}
	var doc samplesDoc
	if err := unmarshalDoc(sampleMeta, &doc); err != nil {
		return nil, err
	}
	if len(doc.Float) != len(doc.Names) {
		return nil, fmt.Errorf("export: sample metadata has %d names and %d tags", len(doc.Names), len(doc.Float))
	}

	pr := parquet.NewGenericReader[SampleRow](pf)
	defer func() { _ = pr.Close() }()

	rows := make([]SampleRow, pr.NumRows())
	if n, err := pr.Read(rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("export: read parquet rows: %w", err)
	} else if n != len(rows) {
		return nil, fmt.Errorf("export: read %d of %d parquet rows", n, len(rows))
	}

	nf := features.Count()
	set := newTupleSet(doc.Names...)
	values := dense.New(len(rows), nf)
	for i, row := range rows {
		if len(row.Sample) != len(doc.Names) || len(row.Values) != nf {
			return nil, fmt.Errorf("export: parquet row %d has shape (%d, %d), expected (%d, %d)",
				i, len(row.Sample), len(row.Values), len(doc.Names), nf)
		}
		tuple := make([]descriptor.IndexValue, len(row.Sample))
		for j, v := range row.Sample {
			if doc.Float[j] {
				tuple[j] = descriptor.Float(v)
				continue
			}
			if v < 0 || v != float64(uint64(v)) {
				return nil, fmt.Errorf("export: parquet row %d: %v is not a valid integer index", i, v)
			}
			tuple[j] = descriptor.Uint(uint64(v))
		}
		if err := set.add(tuple); err != nil {
			return nil, err
		}
		copy(values.Row(i), row.Values)
	}

	return descriptor.FromParts(set.finish(), features, values, nil, nil)
}
