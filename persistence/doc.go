// Package persistence stores descriptors in a compact binary snapshot format.
//
// A snapshot is a fixed 40-byte header followed by the body. The body holds
// the sample and feature index sets, the value matrix and, when present, the
// gradient samples and gradient matrix. It may be compressed with LZ4 or ZSTD.
// The header records the uncompressed body size and its CRC32, so corruption
// is detected after decompression.
//
// All integers and floats are little-endian.
package persistence
