package scene

import (
	"errors"

	"github.com/hupe1980/scenecore/core"
)

// Instantiate binds v to ctx, attaches it under parent and returns the
// caller's reference to it. A nil parent selects the context root; a nil ctx
// is taken from parent.
//
// The tree keeps its own reference through the parent, so releasing the
// returned Ref does not destroy v. Call Destroy to remove it. v must embed
// Component and must not have been instantiated before.
//
// If parent is destroyed or belongs to another context the call is logged
// and v is attached to the root instead. On a closed context v is returned
// already destroyed.
func Instantiate[T Node](ctx *Context, parent Node, name string, v T) *core.Ref[T] {
	if ctx == nil {
		if isNilNode(parent) {
			panic("scene: Instantiate needs a context or a parent")
		}
		ctx = parent.Base().ctx
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	c := v.Base()
	c.init(ctx, v, name)
	ref := core.Adopt(v)

	p, err := ctx.resolveParent(parent)
	if err != nil && !errors.Is(err, ErrContextClosed) {
		ctx.log.misuse("Instantiate", err, c)
		p, err = ctx.resolveParent(nil)
	}
	if err != nil {
		ctx.log.misuse("Instantiate", err, c)
		c.enabled.Store(false)
		c.state.Store(int32(StateDestroyed))
		return ref
	}

	c.attach(p, core.NewRef[Node](v))
	ctx.register(c)
	ctx.log.lifecycle("created", c, "parent", p.id)
	ctx.onComponentCreated.Invoke(v)
	return ref
}

// New instantiates a plain Component.
func New(ctx *Context, parent Node, name string) *core.Ref[*Component] {
	return Instantiate(ctx, parent, name, &Component{})
}
