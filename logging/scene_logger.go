package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"time"
)

// SceneLogger is the slog-backed logger with scene tagging and the record
// shapes used by the component tree. With* methods return copies and leave
// the receiver untouched.
type SceneLogger struct {
	logger    *slog.Logger
	attrs     map[string]any
	component string
	sceneID   string
}

var _ Logger = (*SceneLogger)(nil)

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // "json" (default) or "text"
	Output    io.Writer
	AddSource bool
	Component string
	SceneID   string
	Attrs     map[string]any
}

// DefaultLoggerConfig logs JSON at info level to stdout.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a SceneLogger; a nil cfg means DefaultLoggerConfig.
func NewLogger(cfg *LoggerConfig) *SceneLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	hopts := &slog.HandlerOptions{Level: cfg.Level.slogLevel(), AddSource: cfg.AddSource}
	var h slog.Handler = slog.NewJSONHandler(out, hopts)
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, hopts)
	}
	return &SceneLogger{
		logger:    slog.New(h),
		attrs:     maps.Clone(cfg.Attrs),
		component: cfg.Component,
		sceneID:   cfg.SceneID,
	}
}

// NewSlogLogger is shorthand for NewLogger with stdout output.
func NewSlogLogger(level LogLevel, format string, addSource bool) *SceneLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.AddSource = addSource
	if format != "" {
		cfg.Format = format
	}
	return NewLogger(cfg)
}

func (l *SceneLogger) with(fn func(c *SceneLogger)) *SceneLogger {
	c := *l
	c.attrs = maps.Clone(l.attrs)
	fn(&c)
	return &c
}

// WithContext returns a copy that adds key=value to every record.
func (l *SceneLogger) WithContext(key string, value any) *SceneLogger {
	return l.with(func(c *SceneLogger) {
		if c.attrs == nil {
			c.attrs = map[string]any{}
		}
		c.attrs[key] = value
	})
}

// WithComponent returns a copy tagged with the emitting subsystem, e.g.
// "scene" or "cache".
func (l *SceneLogger) WithComponent(name string) *SceneLogger {
	return l.with(func(c *SceneLogger) { c.component = name })
}

// WithScene returns a copy tagged with a scene context ID.
func (l *SceneLogger) WithScene(id string) *SceneLogger {
	return l.with(func(c *SceneLogger) { c.sceneID = id })
}

func (l *SceneLogger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }
func (l *SceneLogger) Info(msg string, args ...any)  { l.emit(slog.LevelInfo, msg, args) }
func (l *SceneLogger) Warn(msg string, args ...any)  { l.emit(slog.LevelWarn, msg, args) }
func (l *SceneLogger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

// ErrorWithStack logs err at error level together with the calling
// goroutine's stack.
func (l *SceneLogger) ErrorWithStack(err error, msg string, args ...any) {
	if !l.enabled(slog.LevelError) {
		return
	}
	buf := make([]byte, 4096)
	buf = buf[:runtime.Stack(buf, false)]
	if err != nil {
		args = append(args, "error", err.Error(), "error_type", fmt.Sprintf("%T", err))
	}
	l.emit(slog.LevelError, msg, append(args, "stack_trace", string(buf)))
}

// LogLifecycle records a component transition such as "created",
// "reparented" or "destroyed".
func (l *SceneLogger) LogLifecycle(event, id, name string, args ...any) {
	l.emit(slog.LevelDebug, "Component lifecycle",
		append([]any{"event", event, "component_id", id, "component_name", name}, args...))
}

// LogMisuse records an API call that was rejected and turned into a no-op.
func (l *SceneLogger) LogMisuse(op string, err error, args ...any) {
	l.emit(slog.LevelWarn, "Ignored invalid call", append([]any{"operation", op, "error", err}, args...))
}

// LogPerformance records the duration of op and any extra counters, each
// prefixed with "metric_".
func (l *SceneLogger) LogPerformance(op string, dur time.Duration, metrics map[string]any) {
	args := []any{"operation", op, "duration", dur}
	for k, v := range metrics {
		args = append(args, "metric_"+k, v)
	}
	l.emit(slog.LevelInfo, "Performance metrics", args)
}

func (l *SceneLogger) enabled(level slog.Level) bool {
	return l.logger.Enabled(context.Background(), level)
}

// emit must be called directly from the exported method so that the source
// location points at the caller of that method.
func (l *SceneLogger) emit(level slog.Level, msg string, args []any) {
	if !l.enabled(level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if l.component != "" {
		r.AddAttrs(slog.String("component", l.component))
	}
	if l.sceneID != "" {
		r.AddAttrs(slog.String("scene_id", l.sceneID))
	}
	for k, v := range l.attrs {
		r.AddAttrs(slog.Any(k, v))
	}
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}
