// Package logging holds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Config selects the level (DEBUG, INFO, WARN, ERROR) and the output
// format (json or text).
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// New builds a logger writing to w without touching the global one.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Init initializes the global logger and makes it the slog default. Only
// the first call has an effect.
func Init(cfg Config) {
	once.Do(func() {
		logger = New(os.Stderr, cfg)
		slog.SetDefault(logger)
	})
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *slog.Logger {
	Init(Config{Level: "INFO", Format: "text"})
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
