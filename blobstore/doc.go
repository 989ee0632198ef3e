// Package blobstore provides storage abstraction for saved descriptors.
//
// BlobStore is the interface for reading and writing whole blobs (descriptor
// snapshots, archive manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral pipelines
//   - LocalStore: local filesystem with atomic temp-file + rename writes
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
//
// # Wrappers
//
//   - CachingStore: byte-budget LRU over Get, with parallel Prefetch
//   - ThrottledStore: bytes/sec rate limit and request concurrency limit
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Put(ctx, name, data) error
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Get must return an error satisfying errors.Is(err, ErrNotFound) for missing blobs.
package blobstore
