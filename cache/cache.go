// Package cache provides a keyed cache of refcounted objects that is safe
// against resurrection: a lookup may hand out an object whose count has just
// dropped to zero, and the object is then kept instead of being reclaimed.
//
// Stored types embed Entry:
//
//	type Texture struct {
//		cache.Entry[string]
//		pixels []byte
//	}
//
//	textures := cache.New[string]()
//	tex, err := cache.GetOrCreate(textures, "brick.png", false, func() (*Texture, error) {
//		return loadTexture("brick.png")
//	})
//	defer tex.Clear()
//
// Entries live while referenced. Permanent entries stay in the cache after
// their last reference is released, until Purge.
package cache

import (
	"fmt"
	"sync"

	"github.com/hupe1980/scenecore/core"
	"github.com/hupe1980/scenecore/logging"
)

// Options configures a Cache.
type Options struct {
	// Logger receives creation and eviction records (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// WithLogger sets the logger of a Cache.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Cache maps keys to Cacheable objects. The map does not own its values:
// their lifetime is driven by the references handed out by GetOrCreate.
type Cache[K comparable] struct {
	mu      sync.Mutex
	entries map[K]Cacheable[K]
	log     logging.Logger
}

// New creates an empty cache.
func New[K comparable](optFns ...func(o *Options)) *Cache[K] {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if sl, ok := opts.Logger.(*logging.SceneLogger); ok {
		opts.Logger = sl.WithComponent("cache")
	}
	return &Cache[K]{entries: make(map[K]Cacheable[K]), log: opts.Logger}
}

// GetOrCreate returns the object stored under key, creating it with create
// when absent. create runs without the cache lock held; if two goroutines
// race to create the same key, one result is kept and the other is released.
// Requesting an existing entry with permanent set makes it permanent.
func GetOrCreate[V Cacheable[K], K comparable](c *Cache[K], key K, permanent bool, create func() (V, error)) (*core.Ref[V], error) {
	c.mu.Lock()
	ref, err := lookup[V](c, key, permanent)
	c.mu.Unlock()
	if ref != nil || err != nil {
		return ref, err
	}

	v, err := create()
	if err != nil {
		return nil, fmt.Errorf("%w: key %v: %w", ErrCreateFailed, key, err)
	}
	if core.IsNil(v) {
		return nil, fmt.Errorf("%w: key %v: factory returned nil", ErrCreateFailed, key)
	}
	created := core.Adopt(v)

	c.mu.Lock()
	ref, err = lookup[V](c, key, permanent)
	if ref == nil && err == nil {
		e := v.cacheEntry()
		e.key = key
		e.permanent = permanent
		e.cache.Store(c)
		c.entries[key] = v
		ref = created
	}
	c.mu.Unlock()

	if ref != created {
		// Lost the race; the discarded object is not cached and reclaims at once.
		created.Clear()
		return ref, err
	}
	c.log.Debug("Cache entry created", "key", key, "permanent", permanent)
	return ref, nil
}

// lookup retains and returns the entry under key. c.mu must be held.
func lookup[V Cacheable[K], K comparable](c *Cache[K], key K, permanent bool) (*core.Ref[V], error) {
	stored, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	v, ok := stored.(V)
	if !ok {
		return nil, fmt.Errorf("%w: key %v holds %T", ErrTypeMismatch, key, stored)
	}
	e := v.cacheEntry()
	e.permanent = e.permanent || permanent
	ref := core.NewRef(v)
	e.cache.CompareAndSwap(nil, c)
	return ref, nil
}

// Len returns the number of stored entries, including unreferenced
// permanent ones.
func (c *Cache[K]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether key is stored.
func (c *Cache[K]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Purge removes permanent entries that nobody references and reclaims them.
// It returns how many were removed.
func (c *Cache[K]) Purge() int {
	var purged []Cacheable[K]
	c.mu.Lock()
	for key, v := range c.entries {
		e := v.cacheEntry()
		if e.RefCount() == 0 && e.cache.Load() == nil {
			delete(c.entries, key)
			purged = append(purged, v)
		}
	}
	c.mu.Unlock()

	for _, v := range purged {
		v.cacheEntry().Reclaim()
	}
	if len(purged) > 0 {
		c.log.Debug("Cache purged", "entries", len(purged))
	}
	return len(purged)
}
