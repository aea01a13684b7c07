package telemetry

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// LogConfig mirrors the YAML log configuration file.
type LogConfig struct {
	Level      string            `yaml:"level"`
	Format     string            `yaml:"format"`
	Output     string            `yaml:"output"`
	TimeFormat string            `yaml:"time_format"`
	Loggers    map[string]string `yaml:"loggers"`
}

// DefaultLogConfig is used when no configuration file is present.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "rfc3339",
	}
}

// LoadLogConfig reads the YAML file at path. When required is false a missing
// file yields the defaults.
func LoadLogConfig(path string, required bool) (LogConfig, error) {
	cfg := DefaultLogConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read log config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse log config %s: %w", path, err)
	}
	return cfg, nil
}

// Setup loads the log configuration at path and installs it process-wide.
func Setup(path string, required bool) error {
	cfg, err := LoadLogConfig(path, required)
	if err != nil {
		return err
	}
	if err := Configure(cfg); err != nil {
		return err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		Warn("log config not found, using defaults", map[string]any{"path": path})
	}
	return nil
}

// Configure installs cfg, opening its output target.
func Configure(cfg LogConfig) error {
	w, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	return apply(cfg, w)
}

func apply(cfg LogConfig, w io.Writer) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	named := make(map[string]zerolog.Level, len(cfg.Loggers))
	for name, raw := range cfg.Loggers {
		lvl, err := parseLevel(raw)
		if err != nil {
			return fmt.Errorf("logger %s: %w", name, err)
		}
		named[name] = lvl
	}

	switch strings.ToLower(strings.TrimSpace(cfg.TimeFormat)) {
	case "unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "unixms":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	mu.Lock()
	root = newRoot(w, cfg.Format, level)
	overrides = named
	mu.Unlock()
	return nil
}

func openOutput(target string) (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log output %s: %w", target, err)
	}
	return f, nil
}

func parseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "critical", "fatal":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", raw)
	}
}
