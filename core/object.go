package core

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Referenceable is implemented by every type that embeds Object. The
// unexported accessor restricts the set to Object-backed values so that Ref
// can always reach the underlying counter.
type Referenceable interface {
	Retain()
	Release()
	RefCount() int64
	object() *Object
}

// OutOfScoper overrides what happens when an object's strong count reaches
// zero. Implementations decide whether to call Reclaim; a cache, for example,
// keeps an entry that was revived between the decrement and the hook.
type OutOfScoper interface {
	OnOutOfScope()
}

// Disposer releases external resources when an object is reclaimed.
type Disposer interface {
	Dispose()
}

// Object is the intrusive handle embedded by refcounted types. The zero value
// is usable: Retain/Release work on it directly, while Adopt additionally
// binds the embedding value so hooks declared on it are found.
type Object struct {
	refs      atomic.Int64
	reclaimed atomic.Bool
	adopted   atomic.Bool
	self      any
}

func (o *Object) object() *Object { return o }

// Retain increments the strong count.
func (o *Object) Retain() {
	if o.reclaimed.Load() {
		panic("core: retain of reclaimed object")
	}
	o.refs.Add(1)
}

// Release decrements the strong count and runs the out-of-scope hook when it
// reaches zero.
func (o *Object) Release() {
	n := o.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n < 0:
		panic(fmt.Sprintf("core: release of object with refcount %d", n+1))
	}
	if h, ok := o.self.(OutOfScoper); ok {
		h.OnOutOfScope()
		return
	}
	o.Reclaim()
}

// RefCount returns the current strong count.
func (o *Object) RefCount() int64 { return o.refs.Load() }

// Reclaimed reports whether Reclaim has already run.
func (o *Object) Reclaimed() bool { return o.reclaimed.Load() }

// Reclaim marks the object as gone and calls Dispose on the embedding value if
// it implements Disposer. Only the first call has any effect; it returns true
// for that call. OnOutOfScope overrides call this once they have decided the
// object is really unreachable.
func (o *Object) Reclaim() bool {
	if !o.reclaimed.CompareAndSwap(false, true) {
		return false
	}
	if d, ok := o.self.(Disposer); ok {
		d.Dispose()
	}
	return true
}

// Adopt binds v as the owner of its embedded Object, sets the strong count to
// one and hands that first reference to the caller. Adopting the same object
// twice is a programming error and panics.
func Adopt[T Referenceable](v T) *Ref[T] {
	if IsNil(v) {
		panic("core: adopt of nil object")
	}
	o := v.object()
	if !o.adopted.CompareAndSwap(false, true) {
		panic("core: object adopted twice")
	}
	o.self = v
	o.refs.Store(1)
	r := &Ref[T]{}
	r.slot.Store(&box[T]{v: v})
	return r
}

// Retain increments h's count; a nil h is a no-op.
func Retain(h Referenceable) {
	if !IsNil(h) {
		h.Retain()
	}
}

// Release decrements h's count; a nil h is a no-op.
func Release(h Referenceable) {
	if !IsNil(h) {
		h.Release()
	}
}

// IsNil reports whether v is nil, including a typed nil pointer held in an
// interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
