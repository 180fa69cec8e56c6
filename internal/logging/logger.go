// Package logging builds the slog.Logger used by the pulsecheck command.
//
// Records always go to the console writer. When a file is configured they are
// also written to a size-rotated log file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the optional log file.
const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 14
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --log-format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown log format %q (use text or json)", s)
	}
}

// Options configures [New].
type Options struct {
	// Format is the record encoding. Defaults to text.
	Format Format

	// Verbose lowers the level to DEBUG so individual probes are logged.
	Verbose bool

	// File, when set, is a path that also receives every record. The file is
	// rotated by size and old copies are compressed.
	File string

	// Console is where records are written. Defaults to os.Stderr.
	Console io.Writer
}

// New returns a logger for opts and a close function that releases the log
// file, if any. The close function is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	closeFn := func() error { return nil }
	out := console

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(console, rotator)
		closeFn = rotator.Close
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	case FormatText:
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		_ = closeFn()
		return nil, func() error { return nil }, errors.New("unknown log format: " + string(format))
	}

	return slog.New(handler), closeFn, nil
}
