package blobstore

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// CacheStats reports CachingStore effectiveness.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Bytes     int64
	Entries   int
}

// CachingStore wraps a BlobStore and keeps recently read blobs in memory,
// bounded by a total byte budget. Blobs larger than the budget are never cached.
type CachingStore struct {
	inner    BlobStore
	capacity int64

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recently used
	size    int64

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	name string
	data []byte
}

// NewCachingStore creates a new CachingStore.
// capacity defaults to 64MB if <= 0.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	if capacity <= 0 {
		capacity = 64 << 20
	}
	return &CachingStore{
		inner:    inner,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Put writes through to the inner store and invalidates the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Get serves a blob from cache, falling back to the inner store on a miss.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.lookup(name); ok {
		s.hits.Add(1)
		return data, nil
	}
	s.misses.Add(1)

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.insert(name, data)
	return slices.Clone(data), nil
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Prefetch loads the named blobs into the cache using up to concurrency
// parallel reads. The first error cancels the remaining fetches.
func (s *CachingStore) Prefetch(ctx context.Context, concurrency int, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, name := range names {
		if _, ok := s.lookup(name); ok {
			continue
		}
		g.Go(func() error {
			data, err := s.inner.Get(ctx, name)
			if err != nil {
				return err
			}
			s.insert(name, data)
			return nil
		})
	}
	return g.Wait()
}

// Stats returns a snapshot of the cache counters.
func (s *CachingStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Bytes:     s.size,
		Entries:   s.lru.Len(),
	}
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(el)
	return slices.Clone(el.Value.(*cacheEntry).data), true
}

func (s *CachingStore) insert(name string, data []byte) {
	n := int64(len(data))
	if n > s.capacity {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[name]; ok {
		s.removeElement(el)
	}
	for s.size+n > s.capacity {
		back := s.lru.Back()
		if back == nil {
			break
		}
		s.removeElement(back)
		s.evictions.Add(1)
	}

	el := s.lru.PushFront(&cacheEntry{name: name, data: slices.Clone(data)})
	s.entries[name] = el
	s.size += n
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[name]; ok {
		s.removeElement(el)
	}
}

// removeElement must be called with mu held.
func (s *CachingStore) removeElement(el *list.Element) {
	e := s.lru.Remove(el).(*cacheEntry)
	delete(s.entries, e.name)
	s.size -= int64(len(e.data))
}
