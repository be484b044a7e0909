// Package logger configures the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init installs the default logger. Development and debug runs get the
// human-readable text handler; everything else logs JSON.
func Init(env string, debug bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if debug || env == "development" || env == "dev" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Default returns the default logger, falling back to a text handler when
// Init has not been called (tests, one-off tools).
func Default() *slog.Logger {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return defaultLogger
}

// With returns the default logger with the given attributes attached.
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// OrDefault returns l, or the default logger when l is nil. Components accept
// an optional *slog.Logger and resolve it through here.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Default()
}
