// Package logging provides a minimal logging interface and adapters for scenecore.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the scene context and caches use for diagnostics. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - SceneLogger, a configurable slog logger with lifecycle helpers
//   - ZerologAdapter for applications that already log through zerolog
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	ctx := scene.NewContext(scene.WithLogger(logger))
//
// Arguments after the message are key/value pairs in the slog convention.
package logging
