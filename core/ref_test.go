package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface {
	Referenceable
	Area() float64
}

type colored interface {
	Referenceable
	Color() string
}

type square struct {
	Object
	side float64
}

func (s *square) Area() float64 { return s.side * s.side }

type paintedSquare struct {
	square
	color string
}

func (p *paintedSquare) Color() string { return p.color }

type label struct {
	Object
	text string
}

func (l *label) Color() string { return "black" }

// owner keeps its child alive until it is itself disposed.
type owner struct {
	Object
	child *Ref[*mockObject]
}

func (o *owner) Dispose() { o.child.Clear() }

func TestRef_CountsFollowOwnership(t *testing.T) {
	a := &mockObject{}
	b := &mockObject{}
	refA := Adopt(a)
	refB := Adopt(b)
	defer refA.Clear()
	defer refB.Clear()

	r := &Ref[*mockObject]{}
	assert.True(t, r.IsNil())

	r.Set(a)
	assert.Equal(t, int64(2), a.RefCount())

	r.Set(a)
	assert.Equal(t, int64(2), a.RefCount(), "self assignment keeps the count")

	r.Set(nil)
	assert.Equal(t, int64(1), a.RefCount())
	assert.True(t, r.IsNil())

	r.Set(b)
	assert.Equal(t, int64(1), a.RefCount())
	assert.Equal(t, int64(2), b.RefCount())

	other := NewRef(a)
	r.Assign(other)
	assert.Equal(t, int64(3), a.RefCount())
	assert.Equal(t, int64(1), b.RefCount())

	other.Clear()
	r.Clear()
	assert.Equal(t, int64(1), a.RefCount())
	assert.Zero(t, a.disposed.Load())
}

func TestRef_SetRetainsBeforeRelease(t *testing.T) {
	child := &mockObject{}
	parent := &owner{child: Adopt(child)}
	parentRef := Adopt(parent)

	r := NewRef[Referenceable](parent)
	parentRef.Clear()
	require.Equal(t, int64(1), parent.RefCount())
	require.Equal(t, int64(1), child.RefCount())

	// child is reachable only through parent; pointing r at the child drops
	// the last reference to parent, which in turn drops parent's hold on child.
	require.NotPanics(t, func() { r.Set(parent.child.Get()) })

	assert.True(t, parent.Reclaimed())
	assert.False(t, child.Reclaimed())
	assert.Equal(t, int64(1), child.RefCount())

	r.Clear()
	assert.True(t, child.Reclaimed())
}

func TestRef_TakeMovesWithoutCounting(t *testing.T) {
	a := &mockObject{}
	src := Adopt(a)

	dst := &Ref[*mockObject]{}
	dst.Take(src)

	assert.True(t, src.IsNil())
	assert.Same(t, a, dst.Get())
	assert.Equal(t, int64(1), a.RefCount())

	dst.Take(dst)
	assert.Equal(t, int64(1), a.RefCount())

	b := &mockObject{}
	dst.Take(Adopt(b))
	assert.True(t, a.Reclaimed(), "former target released after the move")
	assert.Equal(t, int64(1), b.RefCount())

	dst.Clear()
	assert.True(t, b.Reclaimed())
}

func TestRef_CloneSharesTarget(t *testing.T) {
	a := &mockObject{}
	r := Adopt(a)
	c := r.Clone()

	assert.True(t, Equal(r, c))
	assert.Equal(t, int64(2), a.RefCount())

	r.Clear()
	assert.False(t, a.Reclaimed())
	c.Clear()
	assert.True(t, a.Reclaimed())
}

func TestRef_Equal(t *testing.T) {
	a := Adopt(&mockObject{})
	b := Adopt(&mockObject{})
	defer a.Clear()
	defer b.Clear()

	assert.True(t, Equal(a, a.Clone()))
	assert.False(t, Equal(a, b))
	assert.True(t, Equal(&Ref[*mockObject]{}, &Ref[*label]{}))
	assert.False(t, Equal(a, &Ref[*mockObject]{}))
}

func TestCast_ChecksRuntimeType(t *testing.T) {
	sq := Adopt(&square{side: 2})
	painted := Adopt(&paintedSquare{square: square{side: 3}, color: "red"})
	lbl := Adopt(&label{text: "hi"})
	defer sq.Clear()
	defer painted.Clear()
	defer lbl.Clear()

	tests := []struct {
		name       string
		asShape    bool
		asColored  bool
		shapeRef   func() *Ref[shape]
		coloredRef func() *Ref[colored]
	}{
		{"square", true, false, func() *Ref[shape] { return Cast[shape](sq) }, func() *Ref[colored] { return Cast[colored](sq) }},
		{"painted", true, true, func() *Ref[shape] { return Cast[shape](painted) }, func() *Ref[colored] { return Cast[colored](painted) }},
		{"label", false, true, func() *Ref[shape] { return Cast[shape](lbl) }, func() *Ref[colored] { return Cast[colored](lbl) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.shapeRef()
			c := tt.coloredRef()
			assert.Equal(t, tt.asShape, !s.IsNil())
			assert.Equal(t, tt.asColored, !c.IsNil())
			s.Clear()
			c.Clear()
		})
	}

	// Narrowing back down from the interface.
	widened := Cast[shape](painted)
	narrowed := Cast[*paintedSquare](widened)
	assert.Same(t, painted.Get(), narrowed.Get())
	assert.Equal(t, int64(3), painted.Get().RefCount())
	assert.True(t, Cast[*label](widened).IsNil())
	widened.Clear()
	narrowed.Clear()

	assert.True(t, Cast[shape](&Ref[*square]{}).IsNil())
	assert.True(t, Cast[shape, *square](nil).IsNil())
}

func TestRef_ConcurrentReadDuringAssignment(t *testing.T) {
	a := &mockObject{}
	b := &mockObject{}
	keepA := Adopt(a)
	keepB := Adopt(b)

	r := NewRef(a)
	var stop atomic.Bool
	var wg sync.WaitGroup
	var torn atomic.Int32

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				v := r.Get()
				if v != a && v != b {
					torn.Add(1)
				}
				if v.Reclaimed() {
					torn.Add(1)
				}
			}
		}()
	}

	for i := range 5000 {
		if i%2 == 0 {
			r.Set(b)
		} else {
			r.Set(a)
		}
	}
	stop.Store(true)
	wg.Wait()

	assert.Zero(t, torn.Load())
	r.Clear()
	assert.Equal(t, int64(1), a.RefCount())
	assert.Equal(t, int64(1), b.RefCount())
	keepA.Clear()
	keepB.Clear()
}
