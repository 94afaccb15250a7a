package hashmap

import (
	"context"
	"errors"
	"fmt"
	"github.com/cirruslabs/hashmap/internal/store"
	"github.com/im7mortal/kmutex"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// HashMap is an in-memory cache in front of a durable store.
//
// Reads consult the cache first and fall back to the store, populating
// the cache on success. Writes go to the store first and only then to
// the cache, so a failed store write never leaves the cache ahead of it.
//
// Without WithSerializedWrites, two concurrent writers to the same key,
// or a cache fill racing with a write, may leave the cache holding an
// older value than the store until the entry is evicted or overwritten.
type HashMap struct {
	store  store.Store
	cache  *xsync.MapOf[string, []byte]
	loads  singleflight.Group
	logger *zap.SugaredLogger

	// Per-key serialization of writes and fills, nil unless enabled
	kmutex *kmutex.Kmutex
}

func New(store store.Store, opts ...Option) *HashMap {
	hashMap := &HashMap{
		store: store,
		cache: xsync.NewMapOf[string, []byte](),
	}

	// Apply options
	for _, opt := range opts {
		opt(hashMap)
	}

	// Apply defaults
	if hashMap.logger == nil {
		hashMap.logger = zap.NewNop().Sugar()
	}

	return hashMap
}

// Get returns the value for the key and whether it was found at all.
func (hashMap *HashMap) Get(ctx context.Context, key string) ([]byte, bool, error) {
	hashMap.logger.Infof("GET, with key %s", key)

	if value, ok := hashMap.cache.Load(key); ok {
		hashMap.logger.Debugf("cache hit for key %s", key)

		return value, true, nil
	}

	hashMap.logger.Debugf("cache miss for key %s, querying the store", key)

	// Coalesce concurrent misses for the same key into a single store query.
	// The query is shared with other callers, so it must outlive this caller's
	// cancellation.
	loadCtx := context.WithoutCancel(ctx)

	result, err, _ := hashMap.loads.Do(key, func() (interface{}, error) {
		// Fills race with writes just like writes race with each other
		unlock := hashMap.lock(key)
		defer unlock()

		value, err := hashMap.store.Get(loadCtx, key)
		if err != nil {
			return nil, err
		}

		// Don't clobber a value that was written while we were querying the store
		actual, _ := hashMap.cache.LoadOrStore(key, value)

		return actual, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			hashMap.logger.Debugf("key %s not found in the store", key)

			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to retrieve key %s from the store: %w", key, err)
	}

	//nolint:forcetypeassert // the closure above always returns []byte
	return result.([]byte), true, nil
}

// Set inserts or overwrites the value for the key.
func (hashMap *HashMap) Set(ctx context.Context, key string, value []byte) error {
	hashMap.logger.Infof("POST, with key %s", key)

	unlock := hashMap.lock(key)
	defer unlock()

	if err := hashMap.store.Set(ctx, key, value); err != nil {
		return err
	}

	hashMap.cache.Store(key, value)

	return nil
}

// Update overwrites the value for the key.
//
// The store does not check whether the key exists beforehand, so
// updating an absent key succeeds and still populates the cache.
func (hashMap *HashMap) Update(ctx context.Context, key string, value []byte) error {
	hashMap.logger.Infof("PUT, with key %s", key)

	unlock := hashMap.lock(key)
	defer unlock()

	if err := hashMap.store.Update(ctx, key, value); err != nil {
		return err
	}

	hashMap.cache.Store(key, value)

	return nil
}

// Delete removes the key from both the store and the cache.
// Deleting an absent key succeeds.
func (hashMap *HashMap) Delete(ctx context.Context, key string) error {
	hashMap.logger.Infof("DELETE, with key %s", key)

	unlock := hashMap.lock(key)
	defer unlock()

	if err := hashMap.store.Delete(ctx, key); err != nil {
		return err
	}

	hashMap.cache.Delete(key)

	return nil
}

// Evict drops the cached value for the key, forcing the next Get to query the store.
func (hashMap *HashMap) Evict(key string) {
	hashMap.cache.Delete(key)
}

// Purge drops all cached values.
func (hashMap *HashMap) Purge() {
	hashMap.cache.Clear()
}

// Len returns the number of cached values.
func (hashMap *HashMap) Len() int {
	return hashMap.cache.Size()
}

func (hashMap *HashMap) Close() error {
	return hashMap.store.Close()
}

func (hashMap *HashMap) lock(key string) func() {
	if hashMap.kmutex == nil {
		return func() {}
	}

	hashMap.kmutex.Lock(key)

	return func() {
		hashMap.kmutex.Unlock(key)
	}
}
