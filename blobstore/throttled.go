package blobstore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ThrottleConfig limits the traffic a ThrottledStore sends to its backend.
type ThrottleConfig struct {
	// BytesPerSec caps transferred payload bytes per second (0 = unlimited).
	BytesPerSec int64
	// MaxConcurrent caps in-flight requests (0 = unlimited).
	MaxConcurrent int64
}

// ThrottledStore wraps a BlobStore with a byte rate limiter and a request
// concurrency limit. Both Put and Get payloads are charged against the limiter.
type ThrottledStore struct {
	inner   BlobStore
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	burst   int
}

// NewThrottledStore creates a ThrottledStore. A zero config passes through.
func NewThrottledStore(inner BlobStore, cfg ThrottleConfig) *ThrottledStore {
	s := &ThrottledStore{inner: inner}
	if cfg.BytesPerSec > 0 {
		s.burst = int(cfg.BytesPerSec)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSec), s.burst)
	}
	if cfg.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return s
}

// waitBytes blocks until n bytes are allowed. Requests larger than the burst
// are split, since rate.Limiter rejects WaitN above its burst size.
func (s *ThrottledStore) waitBytes(ctx context.Context, n int) error {
	if s.limiter == nil {
		return nil
	}
	for n > 0 {
		chunk := min(n, s.burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (s *ThrottledStore) acquire(ctx context.Context) (func(), error) {
	if s.sem == nil {
		return func() {}, nil
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.sem.Release(1) }, nil
}

// Put waits for len(data) bytes of budget, then forwards the write.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := s.waitBytes(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Get forwards the read and charges the returned payload afterwards.
func (s *ThrottledStore) Get(ctx context.Context, name string) ([]byte, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.waitBytes(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.Delete(ctx, name)
}

func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.inner.List(ctx, prefix)
}
