// Package logx builds the slog loggers used by the matbench command.
// Library packages take a *slog.Logger through their options and never
// reach for a global.
package logx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultLevel is used when no level is configured.
var DefaultLevel = slog.LevelInfo

// ErrLevel is returned for an unrecognized level name.
var ErrLevel = errors.New("logx: unknown log level")

// ParseLevel accepts debug, info, warn, error (any case), with an optional
// numeric offset such as "debug-2". The empty string selects DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLevel, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrLevel)
	}

	return l, nil
}

// LevelFromFlags maps the usual CLI switches to a level. debug wins over
// verbose, verbose over quiet; none of them leaves DefaultLevel.
func LevelFromFlags(debug, verbose, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

// New returns a text logger writing to w at level and above.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
