package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// mockObject counts how often it was disposed.
type mockObject struct {
	Object
	disposed atomic.Int32
}

func (m *mockObject) Dispose() { m.disposed.Add(1) }

// hookedObject overrides the out-of-scope hook and decides itself when to reclaim.
type hookedObject struct {
	Object
	hookCalls atomic.Int32
	keep      atomic.Bool
}

func (h *hookedObject) OnOutOfScope() {
	h.hookCalls.Add(1)
	if !h.keep.Load() {
		h.Reclaim()
	}
}

func TestAdopt_StartsWithSingleReference(t *testing.T) {
	obj := &mockObject{}
	ref := Adopt(obj)

	assert.Equal(t, int64(1), obj.RefCount())
	assert.Same(t, obj, ref.Get())
	assert.False(t, obj.Reclaimed())

	ref.Clear()
	assert.Equal(t, int64(0), obj.RefCount())
	assert.True(t, obj.Reclaimed())
	assert.Equal(t, int32(1), obj.disposed.Load())
}

func TestAdopt_TwicePanics(t *testing.T) {
	obj := &mockObject{}
	ref := Adopt(obj)
	defer ref.Clear()

	assert.Panics(t, func() { Adopt(obj) })
}

func TestAdopt_NilPanics(t *testing.T) {
	var obj *mockObject
	assert.Panics(t, func() { Adopt(obj) })
}

func TestRelease_BelowZeroPanics(t *testing.T) {
	obj := &mockObject{}
	obj.Retain()
	obj.Release()
	assert.Panics(t, func() { obj.Release() })
}

func TestRetain_AfterReclaimPanics(t *testing.T) {
	obj := &mockObject{}
	Adopt(obj).Clear()
	require.True(t, obj.Reclaimed())

	assert.Panics(t, func() { obj.Retain() })
}

func TestRetainRelease_NilIsNoOp(t *testing.T) {
	var obj *mockObject
	assert.NotPanics(t, func() {
		Retain(nil)
		Release(nil)
		Retain(obj)
		Release(obj)
	})
}

func TestReclaim_RunsOnce(t *testing.T) {
	obj := &mockObject{}
	ref := Adopt(obj)
	ref.Clear()

	assert.False(t, obj.Reclaim())
	assert.Equal(t, int32(1), obj.disposed.Load())
}

func TestOutOfScope_HookOverridesReclaim(t *testing.T) {
	obj := &hookedObject{}
	obj.keep.Store(true)
	ref := Adopt(obj)

	ref.Clear()
	assert.Equal(t, int32(1), obj.hookCalls.Load())
	assert.False(t, obj.Reclaimed(), "hook chose to keep the object")

	// The hook owner may hand out a new reference again.
	obj.Retain()
	obj.keep.Store(false)
	obj.Release()
	assert.Equal(t, int32(2), obj.hookCalls.Load())
	assert.True(t, obj.Reclaimed())
}

func TestRefCount_SymmetricAcrossGoroutines(t *testing.T) {
	const (
		workers    = 16
		iterations = 2000
	)
	obj := &mockObject{}
	ref := Adopt(obj)

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for range iterations {
				obj.Retain()
				obj.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), obj.RefCount())
	assert.Equal(t, int32(0), obj.disposed.Load())

	ref.Clear()
	assert.Equal(t, int32(1), obj.disposed.Load())
}

func TestRelease_ConcurrentLastReleaseFiresOnce(t *testing.T) {
	for range 200 {
		obj := &hookedObject{}
		ref := Adopt(obj)
		for range 3 {
			obj.Retain()
		}
		require.Equal(t, int64(4), obj.RefCount())

		// The Ref's own count is handed to one of the workers.
		_ = ref.slot.Swap(nil)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				obj.Release()
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), obj.hookCalls.Load())
		assert.True(t, obj.Reclaimed())
	}
}
