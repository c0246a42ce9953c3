package core

import "sync/atomic"

// box is immutable once published, so a loaded box never tears.
type box[T any] struct{ v T }

// Ref is an owning pointer to a Referenceable value. While a Ref holds a
// target, that target's count stays above zero.
//
// The slot is an atomic pointer: readers never observe a half-written value
// and assignment is a single exchange. A Ref must not be copied after first
// use; pass *Ref and use Clone to share ownership.
type Ref[T Referenceable] struct {
	slot atomic.Pointer[box[T]]
}

// NewRef returns a Ref holding v, retaining it. A nil v yields an empty Ref.
func NewRef[T Referenceable](v T) *Ref[T] {
	r := &Ref[T]{}
	r.Set(v)
	return r
}

// Get returns the current target, or the zero T when the Ref is empty.
func (r *Ref[T]) Get() T {
	if b := r.slot.Load(); b != nil {
		return b.v
	}
	var zero T
	return zero
}

// IsNil reports whether the Ref holds no target.
func (r *Ref[T]) IsNil() bool { return r.slot.Load() == nil }

// Set points the Ref at v. The new target is retained before the slot is
// exchanged and the former target is released only afterwards, so a target
// whose ownership runs through the old one never drops to zero mid-assignment.
func (r *Ref[T]) Set(v T) {
	var next *box[T]
	if !IsNil(v) {
		v.Retain()
		next = &box[T]{v: v}
	}
	if prev := r.slot.Swap(next); prev != nil {
		prev.v.Release()
	}
}

// Assign makes r share other's target (copy assignment).
func (r *Ref[T]) Assign(other *Ref[T]) {
	if other == nil {
		r.Clear()
		return
	}
	r.Set(other.Get())
}

// Take moves other's target into r without touching its count; other is left
// empty. r's former target is released after both exchanges.
func (r *Ref[T]) Take(other *Ref[T]) {
	if other == nil || other == r {
		return
	}
	moved := other.slot.Swap(nil)
	if prev := r.slot.Swap(moved); prev != nil {
		prev.v.Release()
	}
}

// Clone returns a new Ref sharing r's target.
func (r *Ref[T]) Clone() *Ref[T] {
	return NewRef(r.Get())
}

// Clear releases the target and leaves the Ref empty.
func (r *Ref[T]) Clear() {
	if prev := r.slot.Swap(nil); prev != nil {
		prev.v.Release()
	}
}

// Cast converts a Ref between related types. When the runtime type of r's
// target does not satisfy U the result is an empty Ref, never a partially
// typed one. The returned Ref owns its own count.
func Cast[U Referenceable, T Referenceable](r *Ref[T]) *Ref[U] {
	out := &Ref[U]{}
	if r == nil {
		return out
	}
	if u, ok := any(r.Get()).(U); ok {
		out.Set(u)
	}
	return out
}

// Equal reports whether a and b point at the same object. Two empty Refs are
// equal.
func Equal[T Referenceable, U Referenceable](a *Ref[T], b *Ref[U]) bool {
	return objectOf(a) == objectOf(b)
}

func objectOf[T Referenceable](r *Ref[T]) *Object {
	if r == nil {
		return nil
	}
	b := r.slot.Load()
	if b == nil {
		return nil
	}
	return b.v.object()
}
