// Package config loads scenecore settings from TOML or YAML files and the
// environment.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/scenecore/logging"
	"github.com/hupe1980/scenecore/scene"
)

// Environment variables that override file values.
const (
	EnvLogLevel     = "SCENECORE_LOG_LEVEL"
	EnvLogFormat    = "SCENECORE_LOG_FORMAT"
	EnvLogBackend   = "SCENECORE_LOG_BACKEND"
	EnvLogAddSource = "SCENECORE_LOG_ADD_SOURCE"
)

// Log backends.
const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// Config is the root configuration document.
type Config struct {
	Log   LogConfig   `toml:"log" yaml:"log"`
	Scene SceneConfig `toml:"scene" yaml:"scene"`
}

// LogConfig selects and tunes the logger.
type LogConfig struct {
	Level     string `toml:"level" yaml:"level"`
	Format    string `toml:"format" yaml:"format"`
	AddSource bool   `toml:"add_source" yaml:"add_source"`
	Backend   string `toml:"backend" yaml:"backend"`

	// Output receives log records. Defaults to os.Stdout.
	Output io.Writer `toml:"-" yaml:"-"`
}

// SceneConfig mirrors scene.Config.
type SceneConfig struct {
	RootName     string `toml:"root_name" yaml:"root_name"`
	WarnOnMisuse *bool  `toml:"warn_on_misuse" yaml:"warn_on_misuse"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	warn := scene.DefaultConfig.WarnOnMisuse
	return Config{
		Log: LogConfig{
			Level:   "info",
			Format:  "json",
			Backend: BackendSlog,
		},
		Scene: SceneConfig{
			RootName:     scene.DefaultConfig.RootName,
			WarnOnMisuse: &warn,
		},
	}
}

// Load reads path on top of Default, applies environment overrides and
// validates the result. The format follows the file extension.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv returns Default with environment overrides applied.
func FromEnv() (Config, error) {
	cfg := Default()
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every enumerated field holds a known value.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	switch c.Log.Backend {
	case "", BackendSlog, BackendZerolog:
	default:
		return fmt.Errorf("%w: log.backend %q", ErrInvalid, c.Log.Backend)
	}
	return nil
}

// SceneOptions converts the scene section into context options.
func (c Config) SceneOptions() scene.Config {
	out := scene.DefaultConfig
	if name := strings.TrimSpace(c.Scene.RootName); name != "" {
		out.RootName = name
	}
	if c.Scene.WarnOnMisuse != nil {
		out.WarnOnMisuse = *c.Scene.WarnOnMisuse
	}
	return out
}

// NewLogger builds the logger selected by the log section.
func NewLogger(cfg Config) (logging.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	out := cfg.Log.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.Log.Backend == BackendZerolog {
		return logging.NewZerologLogger(level, cfg.Log.Format, out), nil
	}
	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Output = out
	lc.AddSource = cfg.Log.AddSource
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	return logging.NewLogger(lc), nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvLogFormat); ok {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvLogBackend); ok {
		cfg.Log.Backend = strings.ToLower(v)
	}
	if v, ok := parseBool(os.Getenv(EnvLogAddSource)); ok {
		cfg.Log.AddSource = v
	}
}

func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
