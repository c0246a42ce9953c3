package scene

// FindInParents returns the first of n and its ancestors whose dynamic type
// is T, searching upwards.
func FindInParents[T any](n Node) (T, bool) {
	var zero T
	if isNilNode(n) {
		return zero, false
	}
	c := n.Base()
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	for ; c != nil; c = c.parent.Load() {
		if v, ok := c.self.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// FindAllInParents returns every one of n and its ancestors whose dynamic
// type is T, nearest first.
func FindAllInParents[T any](n Node) []T {
	if isNilNode(n) {
		return nil
	}
	c := n.Base()
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	var out []T
	for ; c != nil; c = c.parent.Load() {
		if v, ok := c.self.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindInChildren returns the first child of n whose dynamic type is T. With
// recursive set the search continues level by level through all descendants.
func FindInChildren[T any](n Node, recursive bool) (T, bool) {
	var found T
	ok := false
	visitChildren(n, recursive, func(child Node) bool {
		found, ok = child.(T)
		return !ok
	})
	return found, ok
}

// FindAllInChildren returns every child of n whose dynamic type is T, or
// every such descendant when recursive is set, in breadth-first order.
func FindAllInChildren[T any](n Node, recursive bool) []T {
	var out []T
	visitChildren(n, recursive, func(child Node) bool {
		if v, ok := child.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// visitChildren walks n's subtree breadth first, excluding n, until visit
// returns false.
func visitChildren(n Node, recursive bool, visit func(Node) bool) {
	if isNilNode(n) {
		return
	}
	c := n.Base()
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	level := c.snapshotChildren()
	for len(level) > 0 {
		var next []Node
		for _, child := range level {
			if !visit(child) {
				return
			}
			if recursive {
				next = append(next, child.Base().snapshotChildren()...)
			}
		}
		level = next
	}
}
