package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/talgya/planetforge/internal/config"
)

// Init installs the default slog logger writing to stdout.
func Init(cfg config.LoggingConfig) *slog.Logger {
	return InitWriter(os.Stdout, cfg)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)

	l.Debug("logger initialized",
		"component", "logger",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
	)
	return l
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
