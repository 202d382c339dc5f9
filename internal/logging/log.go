// Package logging provides JSON-lines structured logging for nodepick.
//
// The picker owns the terminal while it runs, so logs go to a file under
// the data directory instead of stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: io.Discard)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: io.Discard,
		Level:  slog.LevelInfo,
	}
}

// New creates a JSON-lines logger. Records look like:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"node selected","key":"Node 42"}
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel maps a config level name to a slog.Level. Unknown names map
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// NewFile opens (appending) the log file at path and returns a logger
// writing to it plus a close func. If the file cannot be opened the
// returned logger discards everything and the error is reported.
func NewFile(path, level string) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return New(nil), noop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return New(nil), noop, err
	}

	logger := New(&Config{Output: f, Level: ParseLevel(level)})
	return logger, f.Close, nil
}
