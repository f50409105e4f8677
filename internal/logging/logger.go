// Package logging provides structured logging for the Slack MCP agent.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog and keeps the log file handle when one is in use.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a text logger on stdout at info level.
func New() *Logger {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{Logger: slog.New(h)}
}

// NewWithConfig builds a logger from the logging section of the config.
// An unwritable file path falls back to stdout rather than failing startup.
func NewWithConfig(level, format, filePath string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var out io.Writer = os.Stdout
	var f *os.File
	if filePath != "" {
		if opened, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			out = opened
			f = opened
		}
	}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return &Logger{Logger: slog.New(h), file: f}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return &Logger{Logger: slog.New(h)}
}

// Close releases the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func parseLevel(level string) slog.Level {
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
