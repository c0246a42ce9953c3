package testutil

import (
	"fmt"

	"github.com/hupe1980/scenecore/core"
	"github.com/hupe1980/scenecore/scene"
)

// TreeBuilder creates named components and keeps the test's reference to
// each of them.
// Example:
//
//	tree := NewTreeBuilder(ctx).Add("R", "").Add("A", "R").Add("B", "A")
//	defer tree.Release()
//	tree.Node("A").SetParent(tree.Node("B"))
//
// An empty parent name attaches to the context root.
type TreeBuilder struct {
	ctx   *scene.Context
	refs  map[string]*core.Ref[*scene.Component]
	order []string
}

// NewTreeBuilder creates a builder for components of ctx.
func NewTreeBuilder(ctx *scene.Context) *TreeBuilder {
	return &TreeBuilder{ctx: ctx, refs: map[string]*core.Ref[*scene.Component]{}}
}

// Add instantiates a component called name under parent (chainable). It
// panics on duplicate names or unknown parents.
func (b *TreeBuilder) Add(name, parent string) *TreeBuilder {
	if _, dup := b.refs[name]; dup {
		panic(fmt.Sprintf("testutil: duplicate node %q", name))
	}
	var p scene.Node
	if parent != "" {
		p = b.Node(parent)
	}
	b.refs[name] = scene.New(b.ctx, p, name)
	b.order = append(b.order, name)
	return b
}

// Chain adds each name as the child of the one before it, the first under
// parent (chainable).
func (b *TreeBuilder) Chain(parent string, names ...string) *TreeBuilder {
	for _, name := range names {
		b.Add(name, parent)
		parent = name
	}
	return b
}

// Node returns the component registered under name.
func (b *TreeBuilder) Node(name string) *scene.Component {
	ref, ok := b.refs[name]
	if !ok {
		panic(fmt.Sprintf("testutil: unknown node %q", name))
	}
	return ref.Get()
}

// Names returns the node names in creation order.
func (b *TreeBuilder) Names() []string {
	return append([]string(nil), b.order...)
}

// ChildNames returns the names of n's children in order.
func ChildNames(n scene.Node) []string {
	var names []string
	for _, child := range n.Base().Children() {
		names = append(names, child.Base().Name())
	}
	return names
}

// Release destroys every component still alive and drops the builder's
// references.
func (b *TreeBuilder) Release() {
	for i := len(b.order) - 1; i >= 0; i-- {
		ref := b.refs[b.order[i]]
		if c := ref.Get(); c != nil && !c.Destroyed() {
			c.Destroy()
		}
	}
	for _, name := range b.order {
		b.refs[name].Clear()
	}
}
