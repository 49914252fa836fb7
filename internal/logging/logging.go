// Package logging builds the file-backed slog.Logger used by the TUI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Open returns a text logger appending to path and a close function.
// When the file cannot be opened the logger discards everything.
func Open(path string, level slog.Level) (*slog.Logger, func() error) {
	if path == "" {
		return Discard(), func() error { return nil }
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Discard(), func() error { return nil }
	}
	return New(f, level), f.Close
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
