// Package logging builds the process logger from flags and configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rugurujane/storefront/internal/config"
)

// Options select where logs go and at which level.
type Options struct {
	// Level is the --log-level flag; empty defers to settings.
	Level string
	// File is the --log-file flag; empty defers to settings.
	File string
	// Verbose sends text logs to Stderr when no file is configured.
	Verbose bool
	// Interactive suppresses stderr logging since the TUI owns the terminal.
	Interactive bool
	Stderr      io.Writer
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
// The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// New returns a logger and a close function. A log file (flag, then
// log.file) receives JSON records through a RotatingFileWriter. Without a
// file, records go to Stderr as text when verbose and not interactive, and
// are discarded otherwise.
func New(opts Options, settings config.Settings) (*slog.Logger, func() error, error) {
	levelStr := opts.Level
	if levelStr == "" {
		levelStr = settings.LogLevel
	}
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	path := opts.File
	if path == "" {
		path = settings.LogFile
	}
	if path != "" {
		w, err := NewRotatingFileWriter(path, settings.LogMaxSizeMB, settings.LogMaxFiles)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), w.Close, nil
	}

	if (opts.Verbose || settings.Verbose) && !opts.Interactive && opts.Stderr != nil {
		return slog.New(slog.NewTextHandler(opts.Stderr, handlerOpts)), noop, nil
	}
	return Discard(), noop, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noop() error { return nil }
