package blobstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	BlobStore
	gets atomic.Int64
}

func (c *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	c.gets.Add(1)
	return c.BlobStore.Get(ctx, name)
}

func TestCachingStore(t *testing.T) {
	testStore(t, NewCachingStore(NewMemoryStore(), 1024))
}

func TestCachingStore_Hits(t *testing.T) {
	inner := &countingStore{BlobStore: NewMemoryStore()}
	store := NewCachingStore(inner, 1024)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "x", []byte("hello")))

	for range 3 {
		data, err := store.Get(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	}

	assert.Equal(t, int64(1), inner.gets.Load())
	stats := store.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(5), stats.Bytes)
	assert.Equal(t, 1, stats.Entries)
}

func TestCachingStore_PutInvalidates(t *testing.T) {
	store := NewCachingStore(NewMemoryStore(), 1024)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "x", []byte("old")))
	_, err := store.Get(ctx, "x")
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "x", []byte("new")))
	data, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)

	require.NoError(t, store.Delete(ctx, "x"))
	_, err = store.Get(ctx, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore_Eviction(t *testing.T) {
	inner := &countingStore{BlobStore: NewMemoryStore()}
	store := NewCachingStore(inner, 10)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, store.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, store.Put(ctx, "c", []byte("cccc")))
	require.NoError(t, store.Put(ctx, "big", []byte("0123456789ab")))

	for _, name := range []string{"a", "b", "a", "c"} {
		_, err := store.Get(ctx, name)
		require.NoError(t, err)
	}
	// "b" was least recently used when "c" arrived
	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(8), stats.Bytes)

	// oversized blobs are served but never cached
	_, err := store.Get(ctx, "big")
	require.NoError(t, err)
	_, err = store.Get(ctx, "big")
	require.NoError(t, err)

	before := inner.gets.Load()
	_, err = store.Get(ctx, "a")
	require.NoError(t, err)
	_, err = store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, before+1, inner.gets.Load())
}

func TestCachingStore_Prefetch(t *testing.T) {
	inner := &countingStore{BlobStore: NewMemoryStore()}
	store := NewCachingStore(inner, 1<<20)
	ctx := context.Background()

	var names []string
	for i := range 8 {
		name := fmt.Sprintf("blob-%d", i)
		names = append(names, name)
		require.NoError(t, store.Put(ctx, name, []byte(name)))
	}

	require.NoError(t, store.Prefetch(ctx, 3, names...))
	assert.Equal(t, int64(8), inner.gets.Load())

	for _, name := range names {
		data, err := store.Get(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte(name), data)
	}
	assert.Equal(t, int64(8), inner.gets.Load())

	err := store.Prefetch(ctx, 2, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
