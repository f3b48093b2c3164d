// Package logging builds the structured JSON logger used across the SDK.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns a slog.Logger writing JSON to stderr, tagged with
// the component name. Level accepts debug, info, warn/warning and error;
// anything else falls back to info.
func NewJSONLogger(component, level string) *slog.Logger {
	return NewJSONLoggerTo(os.Stderr, component, level)
}

// NewJSONLoggerTo is NewJSONLogger with an explicit sink, for tests.
func NewJSONLoggerTo(w io.Writer, component, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("component", component)
}

// Discard returns a logger that drops everything; the default for library
// callers who did not opt into logging.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
