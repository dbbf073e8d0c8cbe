// Package observability holds the process logger. Output goes to stderr
// so it never interleaves with rendered chat output on stdout.
package observability

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// Logger returns the process-wide logger.
func Logger() *slog.Logger {
	return logger
}

// SetDebug switches the logger to debug level.
func SetDebug(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}
