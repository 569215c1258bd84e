package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where log records go.
type Config struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	File       string `yaml:"file" env:"LOG_FILE"`              // Optional, rotated log file
	MaxSize    int    `yaml:"maxSize" env:"LOG_MAX_SIZE"`       // Megabytes
	MaxBackups int    `yaml:"maxBackups" env:"LOG_MAX_BACKUPS"` // Rotated files to keep
	JSON       bool   `yaml:"json" env:"LOG_JSON"`
}

// Logger is a slog.Logger with the writer behind it, which must be closed
// when a log file is used.
type Logger struct {
	*slog.Logger

	closer io.Closer
}

// ParseLevel accepts the slog level names, case-insensitive. An empty
// string means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s'", s)
	}
	return l, nil
}

// New creates a logger writing to out and, when configured, to a rotated
// log file.
func New(out io.Writer, c Config) (*Logger, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var l Logger

	w := out
	if c.File != "" {
		if err = os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}

		lj := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSize, // MB
			MaxBackups: c.MaxBackups,
		}
		if lj.MaxSize <= 0 {
			lj.MaxSize = 32
		}
		if lj.MaxBackups <= 0 {
			lj.MaxBackups = 1
		}

		w = io.MultiWriter(out, lj)
		l.closer = lj
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if c.JSON {
		l.Logger = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		l.Logger = slog.New(slog.NewTextHandler(w, opts))
	}

	return &l, nil
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Default returns a text logger on stderr at info level, for use before the
// configuration is loaded.
func Default() *Logger {
	l, _ := New(os.Stderr, Config{})
	return l
}
