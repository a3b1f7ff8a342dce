package app

import (
	"io"
	"log/slog"
)

// newLogger builds the application's logger. It does not touch the global
// logger, so several Apps (as in tests) never share one. Unknown levels fall
// back to info; NewConfig rejects them before they get here.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)).With("app", "solforge")
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
