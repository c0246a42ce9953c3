// Package reentrant provides a mutex that the goroutine holding it may lock
// again. The scene tree uses it so that listeners fired during a mutation can
// mutate the tree on the same goroutine.
package reentrant

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Mutex is a goroutine-reentrant mutual exclusion lock. The zero value is an
// unlocked mutex. Every Lock must be paired with an Unlock on the same
// goroutine.
type Mutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex, or deepens the hold if the calling goroutine
// already owns it.
func (m *Mutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// TryLock acquires the mutex without blocking and reports whether it did.
func (m *Mutex) TryLock() bool {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return true
	}
	if !m.mu.TryLock() {
		return false
	}
	m.owner.Store(id)
	m.depth = 1
	return true
}

// Unlock releases one level of the hold. Unlocking from a goroutine that does
// not own the mutex panics.
func (m *Mutex) Unlock() {
	id := goid.Get()
	if owner := m.owner.Load(); owner != id {
		panic(fmt.Sprintf("reentrant: unlock by goroutine %d, held by %d", id, owner))
	}
	m.depth--
	if m.depth > 0 {
		return
	}
	m.owner.Store(0)
	m.mu.Unlock()
}

// HeldByCurrent reports whether the calling goroutine owns the mutex.
func (m *Mutex) HeldByCurrent() bool {
	return m.owner.Load() == goid.Get()
}
