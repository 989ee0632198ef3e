// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("descriptors/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	arch := archive.New(store)
//
// # Features
//
//   - CRC32C checksums on every upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Custom endpoints (LocalStack, path-style addressing)
package s3
