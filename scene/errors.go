package scene

import "errors"

// Misuse of the tree API is reported through the logger and the call becomes
// a no-op. These values are attached to the diagnostic and returned by Validate.
var (
	// ErrDestroyed indicates a mutation on a destroyed or destroying component.
	ErrDestroyed = errors.New("scene: component is destroyed")
	// ErrForeignContext indicates components from two different contexts.
	ErrForeignContext = errors.New("scene: component belongs to another context")
	// ErrRootReparent indicates an attempt to move the context root.
	ErrRootReparent = errors.New("scene: context root cannot be re-parented")
	// ErrCycle indicates a move that would make a component its own ancestor
	// and that promotion could not resolve.
	ErrCycle = errors.New("scene: move would create a cycle")
	// ErrContextClosed indicates use of a context after Close.
	ErrContextClosed = errors.New("scene: context is closed")
	// ErrCorruptTree is wrapped by every structural problem Validate reports.
	ErrCorruptTree = errors.New("scene: corrupt tree")
)
