package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger creates an isolated slog.Logger. Unknown levels fall back to
// info, and any format other than "json" yields text output.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if levelStr != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(levelStr))); err != nil {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(formatStr, "json") {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler).With("app", "tilegrid")
}
