// Package log gives every subsystem in this module — heap construction,
// tokenize, the scheduler's map and reduce phases — a cheap way to tag its
// own records without passing a logger through every call site by hand.
// It is a thin wrapper over log/slog: JSON to stderr, with Module building
// the one piece of structure slog doesn't hand you for free, a named child
// logger.
package log

import (
	"log/slog"
	"os"
)

// Logger holds an *slog.Logger behind a narrower surface: Module and With
// always return *Logger rather than *slog.Logger, so callers never need to
// import log/slog themselves just to pass a logger around.
type Logger struct {
	inner *slog.Logger
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}

// NewWithHandler creates a Logger backed by an arbitrary slog.Handler, for
// tests that want to capture output or redirect it away from stderr.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger. A nil l is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger tagged with a "module" attribute — the way
// a scheduler, a task, or the tokenizer marks its own output as its own.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger carrying additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Debug, Info, Warn, and Error log through the package-level default
// logger, for call sites that don't hold their own Logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
