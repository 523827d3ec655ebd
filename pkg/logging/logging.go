// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("")                 // level from LOG_LEVEL env, default info
//	logging.Setup("debug")            // explicit level override
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default slog logger with a colored tint handler.
// An empty level falls back to the LOG_LEVEL environment variable.
func Setup(level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      parseLevel(level),
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
