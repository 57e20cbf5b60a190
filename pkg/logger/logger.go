package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

func Init(level string) {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	Log = slog.New(handler)
}

// L returns the configured logger, or slog's default before Init runs
func L() *slog.Logger {
	if Log == nil {
		return slog.Default()
	}
	return Log
}

func parseLevel(level string) slog.Level {
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
