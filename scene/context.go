package scene

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/scenecore/core"
	"github.com/hupe1980/scenecore/event"
	"github.com/hupe1980/scenecore/internal/reentrant"
	"github.com/hupe1980/scenecore/logging"
)

// Config holds the tunable behavior of a Context.
type Config struct {
	// RootName is the name given to the context's root component.
	RootName string

	// WarnOnMisuse logs rejected calls (mutating a destroyed component,
	// mixing contexts, moving the root) at warn level. When false they are
	// logged at debug level only.
	WarnOnMisuse bool
}

// DefaultConfig provides the configuration used when none is supplied.
var DefaultConfig = Config{
	RootName:     "SceneRoot",
	WarnOnMisuse: true,
}

// Options configures a Context.
type Options struct {
	// Config contains behavioral parameters. Defaults to DefaultConfig.
	Config Config

	// Logger receives lifecycle and misuse diagnostics (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Context is the execution context shared by every component of one tree. It
// owns the root component and the tree mutex that serializes all structural
// mutation, keeps a registry of live components and publishes tree-wide
// notifications.
type Context struct {
	mu     reentrant.Mutex
	id     string
	log    *loggerAdapter
	root   *core.Ref[*Component]
	live   map[string]Node // guarded by mu
	closed atomic.Bool

	onComponentCreated    event.Multicast[Node]
	onComponentDestroyed  event.Multicast[Node]
	onComponentStateDirty event.Multicast[Node]
}

// NewContext creates a context together with its root component.
func NewContext(optFns ...func(o *Options)) *Context {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.RootName == "" {
		opts.Config.RootName = DefaultConfig.RootName
	}

	id := core.NewID()
	logger := opts.Logger
	if sl, ok := logger.(*logging.SceneLogger); ok {
		logger = sl.WithComponent("scene").WithScene(id)
	}
	ctx := &Context{
		id:   id,
		log:  newLoggerAdapter(logger, opts.Config.WarnOnMisuse),
		live: make(map[string]Node),
	}

	root := &Component{}
	root.init(ctx, root, opts.Config.RootName)
	ctx.root = core.Adopt(root)
	ctx.live[root.id] = root
	ctx.log.lifecycle("created", root, "scene_id", ctx.id)
	return ctx
}

// WithLogger sets the logger of a Context.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithConfig replaces the Config of a Context.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// ID returns the unique identifier of the context.
func (ctx *Context) ID() string { return ctx.id }

// Logger returns the logger diagnostics are written to.
func (ctx *Context) Logger() logging.Logger { return ctx.log.Logger() }

// Root returns the root component, or nil after Close.
func (ctx *Context) Root() *Component { return ctx.root.Get() }

// Lock acquires the tree mutex. The mutex is re-entrant: the goroutine
// holding it may call any tree operation, which lock it again internally.
func (ctx *Context) Lock() { ctx.mu.Lock() }

// Unlock releases one level of the tree mutex.
func (ctx *Context) Unlock() { ctx.mu.Unlock() }

// Closed reports whether the root has been destroyed.
func (ctx *Context) Closed() bool { return ctx.closed.Load() }

// FindByID returns the live component with the given ID.
func (ctx *Context) FindByID(id string) (Node, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	n, ok := ctx.live[id]
	return n, ok
}

// LiveCount returns the number of components that are not yet destroyed,
// including the root.
func (ctx *Context) LiveCount() int {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return len(ctx.live)
}

// OnComponentCreated fires after a component has been attached to the tree.
func (ctx *Context) OnComponentCreated() event.Subscribable[Node] {
	return &ctx.onComponentCreated
}

// OnComponentDestroyed fires once a component has been detached during Destroy.
func (ctx *Context) OnComponentDestroyed() event.Subscribable[Node] {
	return &ctx.onComponentDestroyed
}

// OnComponentStateDirty fires when a component moved in the tree or its
// enabled flag changed.
func (ctx *Context) OnComponentStateDirty() event.Subscribable[Node] {
	return &ctx.onComponentStateDirty
}

// Close destroys the whole tree and drops the context's reference to the
// root. Calling Close again is a no-op.
func (ctx *Context) Close() {
	start := time.Now()
	ctx.mu.Lock()
	root := ctx.root.Get()
	live := len(ctx.live)
	if root != nil && !root.Destroyed() {
		root.Destroy()
	}
	ctx.mu.Unlock()
	if root != nil {
		ctx.log.performance("close", time.Since(start), map[string]any{"destroyed": live})
	}

	ctx.root.Clear()
	ctx.onComponentCreated.Clear()
	ctx.onComponentDestroyed.Clear()
	ctx.onComponentStateDirty.Clear()
}

// resolveParent maps a requested parent to the component a new or moved
// child is attached to. A nil parent selects the root.
func (ctx *Context) resolveParent(parent Node) (*Component, error) {
	if isNilNode(parent) {
		root := ctx.root.Get()
		if root == nil || root.Destroyed() {
			return nil, ErrContextClosed
		}
		return root, nil
	}
	p := parent.Base()
	if p.ctx != ctx {
		return nil, ErrForeignContext
	}
	if p.Destroyed() {
		return nil, ErrDestroyed
	}
	return p, nil
}

func (ctx *Context) register(c *Component) {
	ctx.live[c.id] = c.self
}

func (ctx *Context) unregister(c *Component) {
	delete(ctx.live, c.id)
}
