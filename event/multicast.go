// Package event provides Multicast, the ordered subscriber list used for
// lifecycle notifications throughout scenecore.
//
// # Invocation contract
//
// Invoke runs the callbacks that were subscribed when the invocation began, in
// subscription order, each at most once:
//
//   - a callback cancelled before its turn in the current pass is skipped
//   - a callback subscribed during a pass is only seen by later passes
//   - a callback that cancels itself still finishes its current call
//
// Invocations take an immutable snapshot of the subscriber list under a short
// lock and run the callbacks without holding it. Callbacks may therefore
// subscribe and unsubscribe on the same event, and any number of goroutines may
// invoke concurrently while others mutate the list.
package event

import (
	"slices"
	"sync"
)

// Subscribable is the listen-only view of a Multicast. Accessors hand this out
// so that collaborators can subscribe without being able to invoke.
type Subscribable[T any] interface {
	Subscribe(fn func(T)) *Subscription
	SubscribeOnce(fn func(T)) *Subscription
	SubscribeOwned(owner any, fn func(T)) *Subscription
	Unsubscribe(sub *Subscription) bool
	UnsubscribeOwner(owner any) int
}

type entry[T any] struct {
	sub  *Subscription
	fn   func(T)
	once bool
}

// Multicast is an ordered, concurrency-safe list of callbacks taking a single
// argument of type T. Use a struct for several values and struct{} for none.
// The zero value is ready to use. A Multicast must not be copied after first use.
type Multicast[T any] struct {
	mu        sync.Mutex
	entries   []entry[T]
	snapshot  []entry[T]
	stale     bool
	cancelled int // cancelled entries still in entries, may overcount
}

var _ Subscribable[struct{}] = (*Multicast[struct{}])(nil)

// Subscribe appends fn to the subscriber list.
func (m *Multicast[T]) Subscribe(fn func(T)) *Subscription {
	return m.add(nil, fn, false)
}

// SubscribeOnce appends fn and cancels it after its first call. When several
// goroutines invoke concurrently, exactly one of them runs fn.
func (m *Multicast[T]) SubscribeOnce(fn func(T)) *Subscription {
	return m.add(nil, fn, true)
}

// SubscribeOwned appends fn tagged with owner, so that UnsubscribeOwner can
// later drop every callback registered on the owner's behalf. owner must be
// comparable; pointers are the usual choice.
func (m *Multicast[T]) SubscribeOwned(owner any, fn func(T)) *Subscription {
	return m.add(owner, fn, false)
}

func (m *Multicast[T]) add(owner any, fn func(T), once bool) *Subscription {
	if fn == nil {
		return nil
	}
	sub := &Subscription{owner: owner, source: m}
	sub.active.Store(true)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry[T]{sub: sub, fn: fn, once: once})
	m.stale = true
	m.compactIfSparse()
	return sub
}

// Unsubscribe cancels sub. It returns false when sub was already cancelled or
// belongs to another event.
func (m *Multicast[T]) Unsubscribe(sub *Subscription) bool {
	if sub == nil || sub.source != m {
		return false
	}
	return sub.cancel()
}

// UnsubscribeOwner cancels every active subscription registered with owner and
// returns how many were removed.
func (m *Multicast[T]) UnsubscribeOwner(owner any) int {
	if owner == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, e := range m.entries {
		if e.sub.owner == owner && e.sub.active.CompareAndSwap(true, false) {
			removed++
		}
	}
	if removed > 0 {
		m.stale = true
		m.cancelled += removed
		m.compactIfSparse()
	}
	return removed
}

// Invoke calls every callback subscribed at the moment the call began.
func (m *Multicast[T]) Invoke(arg T) {
	for _, e := range m.current() {
		if e.once {
			if !e.sub.cancel() {
				continue
			}
		} else if !e.sub.active.Load() {
			continue
		}
		e.fn(arg)
	}
}

// Clear cancels every subscription. Passes already in flight skip the
// callbacks they have not reached yet.
func (m *Multicast[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		e.sub.active.Store(false)
	}
	m.entries = nil
	m.snapshot = nil
	m.stale = false
	m.cancelled = 0
}

// Len returns the number of active subscriptions.
func (m *Multicast[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.sub.active.Load() {
			n++
		}
	}
	return n
}

// current returns the invocation snapshot, rebuilding it after mutations.
// Cancelled entries are compacted away during the rebuild.
func (m *Multicast[T]) current() []entry[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stale {
		m.compact()
		m.snapshot = slices.Clone(m.entries)
		m.stale = false
	}
	return m.snapshot
}

// compact drops cancelled entries. m.mu must be held. The published snapshot
// is a separate copy and stays intact.
func (m *Multicast[T]) compact() {
	m.entries = slices.DeleteFunc(m.entries, func(e entry[T]) bool {
		return !e.sub.active.Load()
	})
	m.cancelled = 0
}

// compactIfSparse compacts once cancelled entries make up more than half of
// the list, so subscribe/cancel cycles without Invoke stay bounded. m.mu must
// be held.
func (m *Multicast[T]) compactIfSparse() {
	if m.cancelled > 0 && 2*m.cancelled > len(m.entries) {
		m.compact()
	}
}

func (m *Multicast[T]) markStale() {
	m.mu.Lock()
	m.stale = true
	m.cancelled++
	m.compactIfSparse()
	m.mu.Unlock()
}
