package cache

import (
	"sync/atomic"

	"github.com/hupe1980/scenecore/core"
)

// Cacheable is implemented by every type that embeds Entry.
type Cacheable[K comparable] interface {
	core.Referenceable
	cacheEntry() *Entry[K]
}

// Entry is embedded by value in objects stored in a Cache. It replaces the
// default out-of-scope behavior: when the last reference goes away the entry
// first checks, under the cache lock, whether a concurrent lookup revived it.
type Entry[K comparable] struct {
	core.Object

	cache     atomic.Pointer[Cache[K]]
	key       K    // guarded by the cache mutex
	permanent bool // guarded by the cache mutex
}

func (e *Entry[K]) cacheEntry() *Entry[K] { return e }

// Key returns the key the entry was stored under.
func (e *Entry[K]) Key() K { return e.key }

// OnOutOfScope runs when the strong count drops to zero.
func (e *Entry[K]) OnOutOfScope() {
	c := e.cache.Load()
	if c == nil {
		e.Reclaim()
		return
	}

	reclaim := false
	c.mu.Lock()
	switch {
	case c != e.cache.Load():
		// Another hook detached the entry while this one waited for the lock.
	case e.RefCount() > 0:
		// Revived by a lookup between the decrement and this hook.
	case e.permanent:
		e.cache.Store(nil)
	default:
		delete(c.entries, e.key)
		e.cache.Store(nil)
		reclaim = true
	}
	c.mu.Unlock()

	if reclaim {
		c.log.Debug("Cache entry evicted", "key", e.key)
		e.Reclaim()
	}
}
