package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the handler format: "json" (default) or "text".
	Format string
	// FilePath is the path to the log file. Empty means log to Stderr.
	FilePath string
	// Stderr is the fallback writer when FilePath is empty (default: os.Stderr).
	Stderr io.Writer
}

// DefaultConfig returns quiet stderr logging.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "json",
		Stderr: os.Stderr,
	}
}

// DebugConfig returns configuration for debug mode.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup builds a logger from cfg and returns it with a cleanup function.
// The cleanup function closes the log file, if any.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	var output io.Writer = cfg.Stderr
	if output == nil {
		output = os.Stderr
	}
	cleanup := func() {}

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		cleanup = func() {
			_ = f.Sync()
			_ = f.Close()
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler), cleanup, nil
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString converts string level to slog.Level.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
