package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu        sync.RWMutex
	root      = newRoot(os.Stdout, "json", zerolog.InfoLevel)
	overrides = map[string]zerolog.Level{}
)

// Logger is a named logger. Its level can be overridden per name in the log
// configuration file.
type Logger struct {
	name string
}

// Named returns the logger registered under name, e.g. "xtra.api".
func Named(name string) Logger {
	return Logger{name: name}
}

func (l Logger) zl() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := root.With().Str("logger", l.name).Logger()
	if lvl, ok := overrides[l.name]; ok {
		zl = zl.Level(lvl)
	}
	return zl
}

// Debug writes a debug-level line.
func (l Logger) Debug(msg string, fields map[string]any) {
	zl := l.zl()
	emit(zl.Debug(), msg, fields)
}

// Info writes an info-level line.
func (l Logger) Info(msg string, fields map[string]any) {
	zl := l.zl()
	emit(zl.Info(), msg, fields)
}

// Warn writes a warn-level line.
func (l Logger) Warn(msg string, fields map[string]any) {
	zl := l.zl()
	emit(zl.Warn(), msg, fields)
}

// Error writes an error-level line.
func (l Logger) Error(msg string, fields map[string]any) {
	zl := l.zl()
	emit(zl.Error(), msg, fields)
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	emit(current().Debug(), msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	emit(current().Info(), msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	emit(current().Warn(), msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	emit(current().Error(), msg, fields)
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := root
	return &zl
}

func emit(evt *zerolog.Event, msg string, fields map[string]any) {
	if evt == nil {
		return
	}
	if len(fields) > 0 {
		evt = evt.Fields(fields)
	}
	evt.Msg(msg)
}

func newRoot(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
