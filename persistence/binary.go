package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/rascal/descriptor"
)

// Options configures Encode.
type Options struct {
	Compression Compression
}

// Option configures Encode.
type Option func(*Options)

// WithCompression selects the body compression.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// Encode writes d as a snapshot.
func Encode(w io.Writer, d *descriptor.Descriptor, optFns ...Option) error {
	opts := Options{Compression: CompressionNone}
	for _, fn := range optFns {
		fn(&opts)
	}

	body := encodeBody(d)
	stored, used, err := compress(body, opts.Compression)
	if err != nil {
		return fmt.Errorf("persistence: compress body: %w", err)
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(used),
		RawSize:     uint64(len(body)),
		StoredSize:  uint64(len(stored)),
		Checksum:    CalculateChecksum(body),
	}
	if d.HasGradients() {
		header.Flags |= flagGradients
	}

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Marshal returns the snapshot encoding of d.
func Marshal(d *descriptor.Descriptor, optFns ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, optFns...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadHeader reads and validates a snapshot header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if header.Compression > uint8(CompressionZSTD) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, header.Compression)
	}
	return &header, nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*descriptor.Descriptor, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	stored, err := io.ReadAll(io.LimitReader(r, int64(header.StoredSize)))
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) != header.StoredSize {
		return nil, fmt.Errorf("%w: body is truncated", ErrCorrupt)
	}

	body, err := decompress(stored, Compression(header.Compression), header.RawSize)
	if err != nil {
		return nil, err
	}
	if err := verifyChecksum(body, header.Checksum); err != nil {
		return nil, err
	}
	return decodeBody(body, header.HasGradients())
}

// Unmarshal decodes a snapshot from data.
func Unmarshal(data []byte) (*descriptor.Descriptor, error) {
	return Decode(bytes.NewReader(data))
}

// SaveToFile atomically writes d to filename.
func SaveToFile(filename string, d *descriptor.Descriptor, optFns ...Option) error {
	return saveFile(filename, func(w io.Writer) error {
		return Encode(w, d, optFns...)
	})
}

// LoadFromFile reads a snapshot from filename.
func LoadFromFile(filename string) (*descriptor.Descriptor, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(bufio.NewReaderSize(f, 256*1024))
}

func saveFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory to ensure rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}
