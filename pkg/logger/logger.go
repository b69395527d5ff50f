// Package logger builds slog loggers from configuration and adapts
// them to the lifecycle.Notifier contract.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/trellisdb/trellis/pkg/config"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// New creates a new slog.Logger based on the provided configuration.
// It respects the logging level and format from the config.
// Invalid values default to Info level and Text format.
func New(cfg *config.LogConfig) *slog.Logger {
	// Parse log level
	level := ParseLevel(cfg.Level)

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text", "": // Default to text if empty or invalid
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		// Invalid format, default to text
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
// Valid levels: "debug", "info", "warn", "error" (case-insensitive).
// Invalid levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "": // Default to info if empty
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Invalid level, default to info
		return slog.LevelInfo
	}
}

// slogNotifier forwards reapplication reports to a slog.Logger at
// Warn level. Reports describe objects the engine could not restore,
// so they must not get lost below the default log level.
type slogNotifier struct {
	l *slog.Logger
}

// NewNotifier adapts a slog.Logger to the lifecycle.Notifier contract.
// A nil logger falls back to slog.Default().
func NewNotifier(l *slog.Logger) lifecycle.Notifier {
	if l == nil {
		l = slog.Default()
	}
	return &slogNotifier{l: l}
}

// Say implements lifecycle.Notifier.
func (n *slogNotifier) Say(msg string) {
	n.l.Warn(msg)
}
