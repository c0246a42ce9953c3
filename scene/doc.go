// Package scene implements the component tree: a rooted hierarchy of
// refcounted components with safe re-parenting and cascading destruction.
//
// Every tree belongs to a Context, which owns the root component and a
// re-entrant mutex serializing all structural changes. Listeners fired during
// a change run on the mutating goroutine and may change the tree again.
//
// Components are user types embedding Component:
//
//	type Light struct {
//		scene.Component
//		Intensity float64
//	}
//
//	ctx := scene.NewContext(scene.WithLogger(logger))
//	defer ctx.Close()
//
//	lamp := scene.New(ctx, nil, "Lamp")
//	bulb := scene.Instantiate(ctx, lamp.Get(), "Bulb", &Light{Intensity: 0.8})
//	bulb.Get().OnDestroyed().Subscribe(func(n scene.Node) { ... })
//
//	lamp.Get().Destroy() // destroys the bulb first
//	lamp.Clear()
//	bulb.Clear()
//
// The parent holds a reference to each child, so components live until they
// are destroyed and every caller reference has been released. Invalid calls,
// such as moving a destroyed component, are logged and ignored rather than
// returned as errors.
package scene
