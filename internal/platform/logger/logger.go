// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"account_backend/internal/platform/config"
)

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
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

// New builds a logger writing to w. Format "text" selects the text handler; anything else is JSON.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg config.Log, w io.Writer) *slog.Logger {
	log := New(cfg, w)
	slog.SetDefault(log)
	return log
}
