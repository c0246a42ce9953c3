package scene

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/hupe1980/scenecore/core"
	"github.com/hupe1980/scenecore/event"
)

// Node is implemented by every type that embeds Component. Base gives the
// tree access to the embedded Component while events and queries hand out the
// embedding value itself.
type Node interface {
	core.Referenceable
	Base() *Component
}

// State is the lifecycle phase of a component.
type State int32

const (
	// StateLive is a component attached to the tree.
	StateLive State = iota
	// StateDestroying is a component inside its Destroy call.
	StateDestroying
	// StateDestroyed is terminal.
	StateDestroyed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Component is the element of the scene tree. Embed it by value in a struct
// and create instances with Instantiate. A component owns its children; the
// reference to its parent is non-owning.
//
// Structural methods lock the context's tree mutex. Destroyed, ID and Name do
// not.
type Component struct {
	core.Object

	ctx    *Context
	self   Node
	id     string
	name   atomic.Pointer[string]
	parent atomic.Pointer[Component]
	index  atomic.Int32
	state  atomic.Int32

	enabled  atomic.Bool
	children []*core.Ref[Node] // guarded by ctx.mu

	onDestroyed     event.Multicast[Node]
	onParentChanged event.Multicast[Node]
}

var _ Node = (*Component)(nil)

func (c *Component) init(ctx *Context, self Node, name string) {
	if c.ctx != nil {
		panic(fmt.Sprintf("scene: component %q instantiated twice", c.Name()))
	}
	c.ctx = ctx
	c.self = self
	c.id = core.NewID()
	c.name.Store(&name)
	c.index.Store(-1)
	c.enabled.Store(true)
}

// Base returns c.
func (c *Component) Base() *Component { return c }

// Context returns the context the component belongs to.
func (c *Component) Context() *Context { return c.ctx }

// ID returns the unique identifier of the component.
func (c *Component) ID() string { return c.id }

// Name returns the component name.
func (c *Component) Name() string {
	if p := c.name.Load(); p != nil {
		return *p
	}
	return ""
}

// SetName renames the component.
func (c *Component) SetName(name string) {
	c.name.Store(&name)
}

// String implements fmt.Stringer.
func (c *Component) String() string {
	return fmt.Sprintf("%s(%s)", c.Name(), c.id)
}

// State returns the lifecycle phase.
func (c *Component) State() State { return State(c.state.Load()) }

// Destroyed reports whether Destroy has been called. It is true from the
// moment destruction starts, so listeners can check and skip cheaply.
func (c *Component) Destroyed() bool { return c.State() != StateLive }

// OnDestroyed fires once, at the start of Destroy, with the component still
// attached to the tree.
func (c *Component) OnDestroyed() event.Subscribable[Node] { return &c.onDestroyed }

// OnParentChanged fires on a component and all of its descendants after the
// component was moved to a new parent.
func (c *Component) OnParentChanged() event.Subscribable[Node] { return &c.onParentChanged }

// Parent returns the parent, or nil for the root and destroyed components.
func (c *Component) Parent() Node {
	if p := c.parent.Load(); p != nil {
		return p.self
	}
	return nil
}

// IndexInParent returns the position among the parent's children, or -1.
func (c *Component) IndexInParent() int { return int(c.index.Load()) }

// RootObject returns the topmost ancestor, which is the context root for
// every attached component.
func (c *Component) RootObject() Node {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	top := c
	for p := top.parent.Load(); p != nil; p = top.parent.Load() {
		top = p
	}
	return top.self
}

// ChildCount returns the number of children.
func (c *Component) ChildCount() int {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	return len(c.children)
}

// GetChild returns the child at index i, or nil when i is out of range.
func (c *Component) GetChild(i int) Node {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i].Get()
}

// Children returns a snapshot of the children in order.
func (c *Component) Children() []Node {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	return c.snapshotChildren()
}

// Enabled reports the component's own enabled flag.
func (c *Component) Enabled() bool { return c.enabled.Load() }

// SetEnabled changes the enabled flag and reports the change as a state change.
func (c *Component) SetEnabled(enabled bool) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	if c.enabled.Swap(enabled) == enabled {
		return
	}
	if !c.Destroyed() {
		c.ctx.onComponentStateDirty.Invoke(c.self)
	}
}

// ActiveInHierarchy reports whether the component and every ancestor below
// the root are enabled.
func (c *Component) ActiveInHierarchy() bool {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	if c.Destroyed() {
		return false
	}
	root := c.ctx.root.Get()
	for n := c; n != nil && n != root; n = n.parent.Load() {
		if !n.Enabled() {
			return false
		}
	}
	return true
}

// SetParent moves the component under newParent; nil selects the root.
//
// Moving a component below one of its own descendants does not fail: the
// descendant is first promoted to the component's current parent, then the
// move completes. Calls on destroyed components, across contexts or on the
// root are logged and ignored.
func (c *Component) SetParent(newParent Node) {
	ctx := c.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if c.Destroyed() {
		ctx.log.misuse("SetParent", ErrDestroyed, c)
		return
	}
	np, err := ctx.resolveParent(newParent)
	if err != nil {
		ctx.log.misuse("SetParent", err, c)
		return
	}
	old := c.parent.Load()
	if np == old || np == c {
		return
	}
	if old == nil {
		ctx.log.misuse("SetParent", ErrRootReparent, c)
		return
	}

	if np.hasAncestor(c) {
		np.SetParent(old.self)

		// Listeners fired by the promotion may have changed the tree.
		switch {
		case c.Destroyed() || np.Destroyed():
			ctx.log.misuse("SetParent", ErrDestroyed, c)
			return
		case np.hasAncestor(c):
			ctx.log.misuse("SetParent", ErrCycle, c)
			return
		}
		old = c.parent.Load()
		if old == nil || old == np {
			return
		}
	}

	owning := c.detach()
	if owning == nil {
		return
	}
	c.attach(np, owning)

	ctx.log.lifecycle("reparented", c, "old_parent", old.id, "new_parent", np.id)
	ctx.onComponentStateDirty.Invoke(c.self)
	c.notifyParentChanged()
}

// hasAncestor reports whether a is a strict ancestor of c. ctx.mu must be held.
func (c *Component) hasAncestor(a *Component) bool {
	for p := c.parent.Load(); p != nil; p = p.parent.Load() {
		if p == a {
			return true
		}
	}
	return false
}

// ClearParent moves the component directly under the root.
func (c *Component) ClearParent() { c.SetParent(nil) }

// SetIndexInParent moves the component to position i among its siblings,
// shifting the ones in between. i is clamped to the valid range.
func (c *Component) SetIndexInParent(i int) {
	ctx := c.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if c.Destroyed() {
		ctx.log.misuse("SetIndexInParent", ErrDestroyed, c)
		return
	}
	p := c.parent.Load()
	if p == nil {
		return
	}
	i = max(0, min(i, len(p.children)-1))
	cur := c.checkedIndex(p)
	for cur < i {
		p.swapChildren(cur, cur+1)
		cur++
	}
	for cur > i {
		p.swapChildren(cur, cur-1)
		cur--
	}
}

// SortChildren stably reorders the children with less and renumbers them.
// less runs with the tree mutex held and must not mutate the tree.
func (c *Component) SortChildren(less func(a, b Node) bool) {
	ctx := c.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if c.Destroyed() {
		ctx.log.misuse("SortChildren", ErrDestroyed, c)
		return
	}

	slices.SortStableFunc(c.children, func(a, b *core.Ref[Node]) int {
		switch {
		case less(a.Get(), b.Get()):
			return -1
		case less(b.Get(), a.Get()):
			return 1
		default:
			return 0
		}
	})
	c.reindexFrom(0)
}

// Destroy tears the component down together with its subtree:
//
//  1. OnDestroyed fires while the component is still attached
//  2. children that are still alive are destroyed, last to first
//  3. the component leaves its parent and the live registry
//  4. its events are cleared so nothing can fire afterwards
//
// Calling Destroy again is logged and ignored.
func (c *Component) Destroy() {
	ctx := c.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if !c.state.CompareAndSwap(int32(StateLive), int32(StateDestroying)) {
		ctx.log.misuse("Destroy", ErrDestroyed, c)
		return
	}
	c.enabled.Store(false)

	// The parent's reference may be the last one; keep c alive until the end.
	var self *core.Ref[Node]
	if c.parent.Load() != nil {
		self = core.NewRef(c.self)
	}

	c.onDestroyed.Invoke(c.self)

	// Listeners may have changed the child list; work on a retained copy.
	snapshot := make([]*core.Ref[Node], len(c.children))
	for i, ref := range c.children {
		snapshot[i] = ref.Clone()
	}
	for i := len(snapshot) - 1; i >= 0; i-- {
		if child := snapshot[i].Get().Base(); !child.Destroyed() {
			child.Destroy()
		}
		snapshot[i].Clear()
	}

	if owning := c.detach(); owning != nil {
		owning.Clear()
	}
	ctx.unregister(c)
	if c == ctx.root.Get() {
		ctx.closed.Store(true)
	}
	ctx.log.lifecycle("destroyed", c)
	ctx.onComponentDestroyed.Invoke(c.self)

	c.onDestroyed.Clear()
	c.onParentChanged.Clear()
	c.state.Store(int32(StateDestroyed))
	if self != nil {
		self.Clear()
	}
}

// Dispose runs when the last reference is released. A component that was
// never destroyed has skipped its teardown, which is reported as an error.
func (c *Component) Dispose() {
	if c.ctx != nil && c.State() != StateDestroyed {
		c.ctx.log.releasedWithoutDestroy(c)
	}
}

// detach removes c from its parent's child list, shifting later siblings
// down, and returns the parent's owning reference to c. ctx.mu must be held.
func (c *Component) detach() *core.Ref[Node] {
	p := c.parent.Load()
	if p == nil {
		return nil
	}
	i := c.checkedIndex(p)
	owning := p.children[i]
	p.children = slices.Delete(p.children, i, i+1)
	p.reindexFrom(i)
	c.parent.Store(nil)
	c.index.Store(-1)
	return owning
}

// attach appends c to p's children, taking over owning. ctx.mu must be held.
func (c *Component) attach(p *Component, owning *core.Ref[Node]) {
	c.index.Store(int32(len(p.children)))
	p.children = append(p.children, owning)
	c.parent.Store(p)
}

// checkedIndex returns c's index in p and panics when the stored index does
// not point back at c.
func (c *Component) checkedIndex(p *Component) int {
	i := int(c.index.Load())
	if i < 0 || i >= len(p.children) || p.children[i].Get().Base() != c {
		panic(fmt.Sprintf("scene: child index mismatch for %s at %d in %s", c, i, p))
	}
	return i
}

func (c *Component) swapChildren(i, j int) {
	c.children[i], c.children[j] = c.children[j], c.children[i]
	c.children[i].Get().Base().index.Store(int32(i))
	c.children[j].Get().Base().index.Store(int32(j))
}

func (c *Component) reindexFrom(i int) {
	for ; i < len(c.children); i++ {
		c.children[i].Get().Base().index.Store(int32(i))
	}
}

// notifyParentChanged fires OnParentChanged on c and then depth first on
// every descendant.
func (c *Component) notifyParentChanged() {
	c.onParentChanged.Invoke(c.self)
	for _, child := range c.snapshotChildren() {
		child.Base().notifyParentChanged()
	}
}

func (c *Component) snapshotChildren() []Node {
	out := make([]Node, len(c.children))
	for i, ref := range c.children {
		out[i] = ref.Get()
	}
	return out
}

func isNilNode(n Node) bool { return core.IsNil(n) }
