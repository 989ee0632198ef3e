package persistence

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the body compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the body as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" and "zstd" to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCompression, name)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the stored form of body. Incompressible LZ4 input is
// stored raw, reported through the returned Compression.
func compress(body []byte, c Compression) ([]byte, Compression, error) {
	if len(body) == 0 {
		return body, CompressionNone, nil
	}

	switch c {
	case CompressionNone:
		return body, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(body)))
		n, err := lz4.CompressBlock(body, dst, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 || n >= len(body) {
			return body, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(body, nil), CompressionZSTD, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidCompression, uint8(c))
	}
}

func decompress(stored []byte, c Compression, rawSize uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		if uint64(len(stored)) != rawSize {
			return nil, fmt.Errorf("%w: body is %d bytes, expected %d", ErrCorrupt, len(stored), rawSize)
		}
		return stored, nil
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(stored, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint64(len(out)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, uint8(c))
	}
}
