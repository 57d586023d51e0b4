// Package logging builds the diagnostic logger. Logs go to stderr so they
// never mix with the agent's output on stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// DefaultLevel keeps normal runs quiet.
const DefaultLevel = slog.LevelWarn

// New returns a logger writing to w at level. A terminal gets tint's
// colored text; anything else gets JSON lines.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	var handler slog.Handler
	if isTerminal(w) {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParseLevel converts "debug", "info", "warn" or "error" (any case) to a
// slog.Level. An empty string means DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return DefaultLevel, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
