package scene

import (
	"time"

	"github.com/hupe1980/scenecore/logging"
)

// lifecycleLogger is implemented by logging.SceneLogger. Other loggers get the
// same records through their plain level methods.
type lifecycleLogger interface {
	LogLifecycle(event, id, name string, args ...any)
	LogMisuse(op string, err error, args ...any)
}

type stackLogger interface {
	ErrorWithStack(err error, msg string, args ...any)
}

type performanceLogger interface {
	LogPerformance(op string, dur time.Duration, metrics map[string]any)
}

// loggerAdapter wraps a logging.Logger with the tree diagnostics. It
// guarantees a non-nil logger by substituting a NoOpLogger when constructed
// with nil.
type loggerAdapter struct {
	logger       logging.Logger
	warnOnMisuse bool
}

func newLoggerAdapter(l logging.Logger, warnOnMisuse bool) *loggerAdapter {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	return &loggerAdapter{logger: l, warnOnMisuse: warnOnMisuse}
}

// Logger returns the underlying logger.
func (l *loggerAdapter) Logger() logging.Logger {
	return l.logger
}

func (l *loggerAdapter) lifecycle(event string, c *Component, args ...any) {
	if ll, ok := l.logger.(lifecycleLogger); ok {
		ll.LogLifecycle(event, c.id, c.Name(), args...)
		return
	}
	args = append([]any{"event", event, "component_id", c.id, "component_name", c.Name()}, args...)
	l.logger.Debug("Component lifecycle", args...)
}

func (l *loggerAdapter) misuse(op string, err error, c *Component) {
	if !l.warnOnMisuse {
		l.logger.Debug("Ignored invalid call", "operation", op, "error", err, "component_id", c.id)
		return
	}
	if ll, ok := l.logger.(lifecycleLogger); ok {
		ll.LogMisuse(op, err, "component_id", c.id, "component_name", c.Name())
		return
	}
	l.logger.Warn("Ignored invalid call", "operation", op, "error", err, "component_id", c.id, "component_name", c.Name())
}

func (l *loggerAdapter) releasedWithoutDestroy(c *Component) {
	const msg = "Component released without Destroy; direct release of components is unsafe"
	if sl, ok := l.logger.(stackLogger); ok {
		sl.ErrorWithStack(nil, msg, "component_id", c.id, "component_name", c.Name())
		return
	}
	l.logger.Error(msg, "component_id", c.id, "component_name", c.Name())
}

func (l *loggerAdapter) performance(op string, dur time.Duration, metrics map[string]any) {
	if pl, ok := l.logger.(performanceLogger); ok {
		pl.LogPerformance(op, dur, metrics)
		return
	}
	args := []any{"operation", op, "duration", dur}
	for k, v := range metrics {
		args = append(args, "metric_"+k, v)
	}
	l.logger.Debug("Performance metrics", args...)
}
