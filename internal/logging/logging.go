// Package logging builds suama's process logger: charmbracelet/log over a
// lumberjack-rotated file, exposed to the rest of the tree as *slog.Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger bundles the charm logger with the rotating file it writes to.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates a logger writing to cfg.Dir/cfg.File. When cfg.Stderr is set
// records are also mirrored to stderr.
func New(cfg config.LoggingConfig, stderr io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var writers []io.Writer
	var file *lumberjack.Logger
	if cfg.File != "" {
		if cfg.Dir != "" {
			if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, cfg.File),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
	}
	if cfg.Stderr && stderr != nil {
		writers = append(writers, stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "suama",
	})
	return &Logger{Logger: l, file: file}, nil
}

// Slog returns an slog front end that forwards to the charm logger.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l.Logger)
}

// Close flushes and closes the rotating log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config level name onto a charm log level. An empty name
// selects info.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
