// Package log provides structured diagnostics for mvm.
//
// Components accept a Logger through functional options and fall back to
// Default(), which discards everything until the CLI installs a real
// handler. Diagnostics go to stderr; command results go to stdout and are
// not routed through this package.
//
// Verbosity:
//   - ERROR with --quiet
//   - WARN by default
//   - INFO with --verbose (catalog URLs, resolved versions)
//   - DEBUG with --debug (lock acquisition, byte counts)
package log

import (
	"io"
	"log/slog"
	"sync"
)

// Logger is the logging surface components depend on. Method signatures
// match slog so call sites read the same either way.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that attaches args to every entry.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the process-wide logger, a noop until SetDefault runs.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger. main calls it once after
// flag parsing.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// LevelFromFlags maps the CLI verbosity switches to a slog level. The most
// verbose switch wins when several are given.
func LevelFromFlags(quiet, verbose, debug bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewCLI returns the Logger the mvm binary installs: plain text on w,
// without timestamps unless debugging.
func NewCLI(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{Level: level}
	if level > slog.LevelDebug {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}
	return New(slog.NewTextHandler(w, opts))
}
