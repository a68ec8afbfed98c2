// Package logging configures structured logging with tint.
//
// Usage:
//
//	logging.Setup(logging.Options{Level: "debug"})
//	logging.Setup(logging.Options{Level: cfg.LogLevel, NoColor: cfg.LogNoColor})
//
// The handler is installed as the slog default, so packages log through
// log/slog directly.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls the installed handler.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// NoColor disables ANSI colors (for log collectors and CI).
	NoColor bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Setup builds a tint logger from opts and installs it as the slog default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// New builds a tint logger without touching the slog default.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      ParseLevel(opts.Level),
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    opts.NoColor,
	}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
