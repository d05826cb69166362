package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/utm-transform-service/internal/config"
)

// NewLogger builds the service logger from config. Level may be "debug",
// "info", "warn", or "error" (default "info"); format "json" or "text"
// (default "json"). The logger is injected into components rather than set
// as a process-wide default.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", "utm-transform")
}
