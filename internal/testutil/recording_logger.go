package testutil

import (
	"sync"

	"github.com/hupe1980/scenecore/logging"
)

// Entry is one record captured by RecordingLogger.
type Entry struct {
	Level logging.LogLevel
	Msg   string
	Args  []any
}

// Attr returns the value logged under key.
func (e Entry) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(e.Args); i += 2 {
		if k, ok := e.Args[i].(string); ok && k == key {
			return e.Args[i+1], true
		}
	}
	return nil, false
}

// RecordingLogger is a logging.Logger that keeps every record in memory so
// tests can assert on diagnostics. It is safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logging.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger { return &RecordingLogger{} }

func (r *RecordingLogger) record(level logging.LogLevel, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Args: append([]any(nil), args...)})
}

// Debug records a debug message.
func (r *RecordingLogger) Debug(msg string, args ...any) { r.record(logging.LogLevelDebug, msg, args) }

// Info records an informational message.
func (r *RecordingLogger) Info(msg string, args ...any) { r.record(logging.LogLevelInfo, msg, args) }

// Warn records a warning message.
func (r *RecordingLogger) Warn(msg string, args ...any) { r.record(logging.LogLevelWarn, msg, args) }

// Error records an error message.
func (r *RecordingLogger) Error(msg string, args ...any) { r.record(logging.LogLevelError, msg, args) }

// Entries returns a copy of all records.
func (r *RecordingLogger) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// AtLevel returns the records logged at level.
func (r *RecordingLogger) AtLevel(level logging.LogLevel) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all records.
func (r *RecordingLogger) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
