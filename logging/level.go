package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the severity threshold understood by every backend.
type LogLevel int

// Levels in increasing severity.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

// String returns the lowercase name accepted by ParseLevel.
func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a case-insensitive level name into a LogLevel. The
// empty string selects info; "warning" is accepted for warn.
func ParseLevel(s string) (LogLevel, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "":
		return LogLevelInfo, nil
	case "warning":
		return LogLevelWarn, nil
	default:
		for i, n := range levelNames {
			if n == name {
				return LogLevel(i), nil
			}
		}
	}
	return LogLevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// slogLevel maps onto slog's spacing of four between levels.
func (l LogLevel) slogLevel() slog.Level {
	if l < LogLevelDebug || l > LogLevelError {
		return slog.LevelInfo
	}
	return slog.LevelDebug + slog.Level(4*int(l))
}
