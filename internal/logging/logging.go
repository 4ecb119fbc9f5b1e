// Package logging builds the daemon's slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Config holds configuration for the daemon logger.
type Config struct {
	Level     string
	FilePath  string
	Overwrite bool
	// Console receives a copy of every record. Nil disables mirroring.
	Console io.Writer
}

// DefaultFilePath returns $XDG_STATE_HOME/gridtile/gridtile.log.
func DefaultFilePath() string {
	return filepath.Join(xdg.StateHome, "gridtile", "gridtile.log")
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Logger is a slog logger bound to an open log file.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New opens the log file and returns a text logger writing to it and, when
// set, to cfg.Console.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	path := cfg.FilePath
	if path == "" {
		path = DefaultFilePath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if cfg.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	var w io.Writer = f
	if cfg.Console != nil {
		w = io.MultiWriter(f, cfg.Console)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), file: f}, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
