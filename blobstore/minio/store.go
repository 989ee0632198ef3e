package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hupe1980/rascal/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	root   string // "" or ends with "/"
}

var _ blobstore.BlobStore = (*Store)(nil)

// NewStore creates a new MinIO blob store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "descriptors/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	root := strings.Trim(rootPrefix, "/")
	if root != "" {
		root += "/"
	}
	return &Store{
		client: client,
		bucket: bucket,
		root:   root,
	}
}

// Config holds connection settings for Dial.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Secure    bool
	Region    string
}

// Dial connects to a MinIO endpoint with static credentials and creates the
// bucket when it does not exist yet.
func Dial(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("minio: create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return NewStore(client, cfg.Bucket, cfg.Prefix), nil
}

func (s *Store) key(name string) string {
	return s.root + name
}

// Put writes a blob atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := blobstore.ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", name, err)
	}
	return nil
}

// Get downloads a whole blob.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap("get", name, err)
	}
	defer func() { _ = obj.Close() }()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrap("get", name, err)
	}
	return data, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil // Already gone
		}
		return fmt.Errorf("minio: delete %s: %w", name, err)
	}
	return nil
}

// List returns all blob names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio: list %s: %w", prefix, obj.Err)
		}
		// Strip our root prefix
		name := strings.TrimPrefix(obj.Key, s.root)
		if name != "" {
			names = append(names, name)
		}
	}

	slices.Sort(names)
	return names, nil
}

func (s *Store) wrap(op, name string, err error) error {
	if isNotFound(err) {
		return blobstore.ErrNotFound
	}
	return fmt.Errorf("minio: %s %s: %w", op, name, err)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
