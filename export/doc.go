// Package export converts descriptors into columnar formats for downstream
// analysis tools.
//
// # Arrow
//
// ToRecord builds an arrow.Record with one column per sample index name
// (uint64 or float64, following the value tags) and one float64 column per
// feature, labelled "name=value,...". The full feature set travels in the
// schema metadata so FromRecord and ReadArrow can rebuild the descriptor.
// WriteArrow and ReadArrow use the Arrow IPC stream format.
//
// # Parquet
//
// WriteParquet stores one row per sample as {sample []float64, values []float64}
// with the index sets in the file key-value metadata. Integer sample values
// are exact up to 2^53.
//
// Gradients are not exported; use the persistence snapshot format for them.
package export
