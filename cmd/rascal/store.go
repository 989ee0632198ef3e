package main

import (
	"context"

	"github.com/hupe1980/rascal/archive"
	"github.com/hupe1980/rascal/blobstore"
	minioblob "github.com/hupe1980/rascal/blobstore/minio"
	s3blob "github.com/hupe1980/rascal/blobstore/s3"
	"github.com/hupe1980/rascal/persistence"
)

// openStore builds the configured backend and its optional wrappers.
func openStore(ctx context.Context, cfg ArchiveConfig) (blobstore.BlobStore, error) {
	var store blobstore.BlobStore
	switch cfg.Backend {
	case "memory":
		store = blobstore.NewMemoryStore()
	case "s3":
		opts := []s3blob.Option{s3blob.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3blob.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(cfg.Endpoint))
		}
		s, err := s3blob.New(ctx, cfg.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		store = s
	case "minio":
		s, err := minioblob.Dial(ctx, minioblob.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Secure:    cfg.Secure,
			Region:    cfg.Region,
		})
		if err != nil {
			return nil, err
		}
		store = s
	default:
		store = blobstore.NewLocalStore(cfg.Dir)
	}

	if cfg.RateLimit > 0 || cfg.MaxConcurrent > 0 {
		store = blobstore.NewThrottledStore(store, blobstore.ThrottleConfig{
			BytesPerSec:   cfg.RateLimit,
			MaxConcurrent: cfg.MaxConcurrent,
		})
	}
	if cfg.CacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cfg.CacheBytes)
	}
	return store, nil
}

func openArchive(ctx context.Context, cfg *Config) (*archive.Archive, error) {
	store, err := openStore(ctx, cfg.Archive)
	if err != nil {
		return nil, err
	}
	compression, err := persistence.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return archive.New(store, archive.WithCompression(compression)), nil
}
