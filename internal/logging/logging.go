// Package logging builds the structured logger and the optional run log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger and the run log file it may be writing to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New logs to stderr and, when path is not empty, also appends to the file at path.
func New(level slog.Level, path string) (*Logger, error) {
	return newLogger(os.Stderr, level, path)
}

func newLogger(console io.Writer, level slog.Level, path string) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	if path == "" {
		return &Logger{Logger: slog.New(slog.NewTextHandler(console, opts))}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	handler := slog.NewTextHandler(io.MultiWriter(console, f), opts)
	return &Logger{Logger: slog.New(handler), file: f}, nil
}

// Close flushes and closes the run log file if there is one.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
