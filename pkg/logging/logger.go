// Package logging wraps slog with the field names used across kerf.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with kerf-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler logs
// text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger writing human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return New(os.Stderr, "text", level)
}

// NewJSONLogger creates a Logger writing JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return New(os.Stderr, "json", level)
}

// New creates a Logger writing to w in the given format, "text" or "json".
// Unknown formats fall back to text.
func New(w io.Writer, format string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}
	return NewLogger(slog.NewTextHandler(w, opts))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// ParseLevel converts debug, info, warn or error into a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("logging: unknown level %q", s)
}

// WithPart adds the name of the part being worked on.
func (l *Logger) WithPart(name string) *Logger {
	return &Logger{Logger: l.Logger.With("part", name)}
}

// WithOp adds the kernel operation being run.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{Logger: l.Logger.With("op", op)}
}

// LogEval logs the end of an evaluation.
func (l *Logger) LogEval(parts, evalErrors int, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		l.Error("evaluation failed", "elapsed", elapsed, "error", err)
	case evalErrors > 0:
		l.Warn("evaluation reported errors", "errors", evalErrors, "elapsed", elapsed)
	default:
		l.Info("evaluation completed", "parts", parts, "elapsed", elapsed)
	}
}

// LogMesh logs the tessellation of one part.
func (l *Logger) LogMesh(vertices, triangles int, err error) {
	if err != nil {
		l.Error("tessellation failed", "error", err)
		return
	}
	l.Debug("tessellation completed", "vertices", vertices, "triangles", triangles)
}
