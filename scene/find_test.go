package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scenecore/scene"
)

type transform struct {
	scene.Component
	x float64
}

type light struct {
	scene.Component
	lux float64
}

func (l *light) Lux() float64 { return l.lux }

type illuminant interface {
	Lux() float64
}

// root -> t1(transform) -> t2(transform) -> body -> bulb(light)
//
//	t1 -> lamp(light)
func buildRig(t *testing.T, ctx *scene.Context) (t1, t2 *transform, body *scene.Component, bulb, lamp *light) {
	t.Helper()
	r1 := scene.Instantiate(ctx, nil, "t1", &transform{x: 1})
	r2 := scene.Instantiate(ctx, r1.Get(), "t2", &transform{x: 2})
	rb := scene.New(ctx, r2.Get(), "body")
	rl := scene.Instantiate(ctx, rb.Get(), "bulb", &light{lux: 60})
	rlamp := scene.Instantiate(ctx, r1.Get(), "lamp", &light{lux: 800})
	t.Cleanup(func() {
		for _, c := range []interface{ Clear() }{r1, r2, rb, rl, rlamp} {
			c.Clear()
		}
	})
	return r1.Get(), r2.Get(), rb.Get(), rl.Get(), rlamp.Get()
}

func TestFindInParents(t *testing.T) {
	ctx, _ := newContext(t)
	t1, t2, body, bulb, _ := buildRig(t, ctx)

	got, ok := scene.FindInParents[*transform](bulb)
	require.True(t, ok)
	assert.Same(t, t2, got, "nearest ancestor wins")

	self, ok := scene.FindInParents[*light](bulb)
	require.True(t, ok)
	assert.Same(t, bulb, self, "the search starts at the node itself")

	_, ok = scene.FindInParents[*light](body)
	assert.False(t, ok)

	all := scene.FindAllInParents[*transform](bulb)
	require.Len(t, all, 2)
	assert.Same(t, t2, all[0])
	assert.Same(t, t1, all[1])

	_, ok = scene.FindInParents[*transform](nil)
	assert.False(t, ok)
}

func TestFindInChildren(t *testing.T) {
	ctx, _ := newContext(t)
	t1, t2, _, bulb, lamp := buildRig(t, ctx)

	_, ok := scene.FindInChildren[*light](t2, false)
	assert.False(t, ok, "bulb is a grandchild")

	got, ok := scene.FindInChildren[*light](t2, true)
	require.True(t, ok)
	assert.Same(t, bulb, got)

	first, ok := scene.FindInChildren[illuminant](t1, true)
	require.True(t, ok)
	assert.Same(t, lamp, first, "shallower match found before deeper ones")

	lights := scene.FindAllInChildren[*light](ctx.Root(), true)
	require.Len(t, lights, 2)
	assert.Same(t, lamp, lights[0])
	assert.Same(t, bulb, lights[1])

	transforms := scene.FindAllInChildren[*transform](ctx.Root(), false)
	require.Len(t, transforms, 1)
	assert.Same(t, t1, transforms[0])

	direct := scene.FindAllInChildren[scene.Node](t1, false)
	assert.Equal(t, []string{"t2", "lamp"}, names(direct))
}

func TestWalk(t *testing.T) {
	ctx, _ := newContext(t)
	buildRig(t, ctx)

	type visit struct {
		name  string
		depth int
	}
	var visits []visit
	ctx.Root().Walk(func(n scene.Node, depth int) bool {
		visits = append(visits, visit{n.Base().Name(), depth})
		return true
	})
	assert.Equal(t, []visit{
		{"SceneRoot", 0},
		{"t1", 1},
		{"t2", 2},
		{"body", 3},
		{"bulb", 4},
		{"lamp", 2},
	}, visits)

	var pruned []string
	ctx.Root().Walk(func(n scene.Node, _ int) bool {
		pruned = append(pruned, n.Base().Name())
		return n.Base().Name() != "t2"
	})
	assert.Equal(t, []string{"SceneRoot", "t1", "t2", "lamp"}, pruned)
}
