// Package scenecore provides a façade over the component tree and its
// supporting services (refcounted handles, multicast events, the object cache
// and logging). Most applications interact with this package by:
//  1. Creating a Scene via New() or NewFromConfig()
//  2. Adding components under its root with NewComponent or scene.Instantiate
//  3. Closing the Scene, which destroys every component it still holds
//
// Lower level packages (core, event, scene, cache) can be used directly; the
// façade only wires them together with a shared logger.
package scenecore

import (
	"github.com/hupe1980/scenecore/cache"
	"github.com/hupe1980/scenecore/config"
	"github.com/hupe1980/scenecore/core"
	"github.com/hupe1980/scenecore/logging"
	"github.com/hupe1980/scenecore/scene"
)

// Options configures the Scene instance.
type Options struct {
	// SceneConfig holds the root name and misuse reporting of the tree.
	SceneConfig scene.Config

	// Assets is the object cache shared by the scene's components (defaults
	// to a new cache keyed by string).
	Assets *cache.Cache[string]

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Scene is the high-level façade aggregating a scene context and an asset cache.
type Scene struct {
	opts Options
	ctx  *scene.Context
}

// New creates a new Scene with optional overrides.
func New(optFns ...func(o *Options)) *Scene {
	opts := Options{
		SceneConfig: scene.DefaultConfig,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Assets == nil {
		opts.Assets = cache.New[string](cache.WithLogger(opts.Logger))
	}

	ctx := scene.NewContext(func(o *scene.Options) {
		o.Config = opts.SceneConfig
		o.Logger = opts.Logger
	})

	return &Scene{opts: opts, ctx: ctx}
}

// NewFromConfig creates a Scene whose logger and tree settings come from cfg.
func NewFromConfig(cfg config.Config, optFns ...func(o *Options)) (*Scene, error) {
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	fns := append([]func(o *Options){func(o *Options) {
		o.SceneConfig = cfg.SceneOptions()
		o.Logger = logger
	}}, optFns...)
	return New(fns...), nil
}

// WithLogger sets the logger shared by the tree and the asset cache.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithAssets uses c as the asset cache.
func WithAssets(c *cache.Cache[string]) func(o *Options) {
	return func(o *Options) { o.Assets = c }
}

// Context returns the underlying scene context.
func (s *Scene) Context() *scene.Context { return s.ctx }

// Root returns the root component, or nil once the scene is closed.
func (s *Scene) Root() *scene.Component { return s.ctx.Root() }

// Assets returns the asset cache.
func (s *Scene) Assets() *cache.Cache[string] { return s.opts.Assets }

// Logger returns the logger in use.
func (s *Scene) Logger() logging.Logger { return s.opts.Logger }

// NewComponent creates a plain component under parent (the root if nil).
func (s *Scene) NewComponent(parent scene.Node, name string) *core.Ref[*scene.Component] {
	return scene.New(s.ctx, parent, name)
}

// Close destroys the whole tree. Unreferenced permanent assets are purged.
func (s *Scene) Close() {
	s.ctx.Close()
	s.opts.Assets.Purge()
}
