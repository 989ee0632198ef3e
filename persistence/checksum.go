package persistence

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// CRC32 (IEEE polynomial) detects accidental corruption of snapshot bodies.
// It is not a tamper check.

// CalculateChecksum calculates CRC32 checksum of data.
func CalculateChecksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// verifyChecksum compares the checksum of data to expected.
func verifyChecksum(data []byte, expected uint32) error {
	if actual := CalculateChecksum(data); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is or wraps a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
