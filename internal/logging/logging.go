// Package logging holds the process-wide zerolog logger. Diagnostics go to
// stderr so stdout stays reserved for the operator transcript.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the interactive transcript free of routine events
const DefaultLevel = zerolog.WarnLevel

var logger atomic.Pointer[zerolog.Logger]

func init() {
	l := New("console", DefaultLevel, os.Stderr)
	logger.Store(&l)
}

// L returns the current global logger.
func L() *zerolog.Logger { return logger.Load() }

// Set replaces the global logger.
func Set(l zerolog.Logger) {
	logger.Store(&l)
}

// New creates a logger with the given format ("console" or "json") and
// level writing to w (stderr when nil).
func New(format string, level zerolog.Level, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel accepts zerolog level names; empty selects DefaultLevel
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// Configure builds a logger from textual settings and installs it globally
func Configure(format, level string, w io.Writer) (zerolog.Logger, error) {
	switch format {
	case "", "console", "json":
	default:
		return *L(), fmt.Errorf("invalid log format %q (valid: console, json)", format)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return *L(), err
	}
	l := New(format, lvl, w).With().Str("app", "serialping").Logger()
	Set(l)
	return l, nil
}
