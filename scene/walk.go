package scene

import (
	"errors"
	"fmt"
)

// Walk visits c and its descendants depth first, parents before children.
// Returning false from fn skips the children of that node. The tree mutex is
// held for the whole walk; fn may mutate the tree, in which case the walk
// continues over the children snapshotted before the mutation.
func (c *Component) Walk(fn func(n Node, depth int) bool) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	c.walk(fn, 0)
}

func (c *Component) walk(fn func(Node, int) bool, depth int) {
	if !fn(c.self, depth) {
		return
	}
	for _, child := range c.snapshotChildren() {
		child.Base().walk(fn, depth+1)
	}
}

// Validate checks the structural invariants of the subtree below n: every
// child points back at its parent, its stored index locates it, it is not
// destroyed, and walking parents from it reaches the root within as many
// steps as there are live components. All violations are returned joined;
// each wraps ErrCorruptTree.
func Validate(n Node) error {
	if isNilNode(n) {
		return nil
	}
	c := n.Base()
	ctx := c.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	limit := len(ctx.live)
	root := ctx.root.Get()
	var errs []error
	corrupt := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrCorruptTree, fmt.Sprintf(format, args...)))
	}

	c.walk(func(node Node, _ int) bool {
		cur := node.Base()
		if cur.Destroyed() {
			corrupt("%s is destroyed but still attached", cur)
		}
		for i, ref := range cur.children {
			child := ref.Get().Base()
			if p := child.parent.Load(); p != cur {
				corrupt("%s lists %s whose parent is %v", cur, child, p)
			}
			if idx := child.IndexInParent(); idx != i {
				corrupt("%s stores index %d but sits at %d in %s", child, idx, i, cur)
			}
		}
		steps := 0
		for a := cur; a != root; a = a.parent.Load() {
			if a == nil {
				corrupt("%s is not connected to the root", cur)
				break
			}
			if steps++; steps > limit {
				corrupt("parent chain of %s exceeds %d steps", cur, limit)
				break
			}
		}
		return true
	}, 0)
	return errors.Join(errs...)
}
