// Package log centralizes structured logging: a component-tagged slog
// wrapper plus the shared field and component names.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger permanently tagged with a component field.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	// Handler overrides the default stdout text handler when set.
	Handler slog.Handler
}

// New creates a component-tagged logger.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}

	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, config.Component),
		base:      base,
		component: config.Component,
	}
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// SetDefault routes package-level slog calls through this logger's handler.
// The default stays untagged; call sites supply their own component field.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.base)
}

// LevelFromEnv maps LOG_LEVEL to a slog level, defaulting to info.
func LevelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
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
