package persistence

import "errors"

const (
	// MagicNumber identifies descriptor snapshots (ASCII: "RSC0")
	MagicNumber = 0x52534330
	// Version is the current file format version (v1.0.0)
	Version = 0x00010000

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 40
)

const (
	flagGradients uint8 = 1 << iota
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unsupported compression")
	ErrCorrupt            = errors.New("corrupt snapshot body")
)

// FileHeader is the header at the start of every snapshot.
type FileHeader struct {
	Magic       uint32 // 0x52534330 ("RSC0")
	Version     uint32 // File format version
	Compression uint8  // see Compression
	Flags       uint8  // bit 0: gradients present
	Padding     [2]byte
	RawSize     uint64 // uncompressed body size
	StoredSize  uint64 // body size on disk
	Checksum    uint32 // CRC32 of the uncompressed body
	Reserved    [8]byte
}

// HasGradients reports whether the snapshot carries gradients.
func (h *FileHeader) HasGradients() bool { return h.Flags&flagGradients != 0 }
