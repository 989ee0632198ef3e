package blobstore

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for blob names that are empty, absolute or
// escape the store root.
var ErrInvalidName = errors.New("blobstore: invalid blob name")

// BlobStore stores whole immutable blobs (descriptor snapshots, manifests).
//
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the full content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateName checks that name is a relative slash separated path that
// stays inside the store.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return ErrInvalidName
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidName
		}
	}
	return nil
}
