// Package logging provides file logging. The TUI owns the terminal, so log
// output goes to a file in the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// FileName is the log file name inside the log directory
const FileName = "daysince.log"

// MaxSize is the size at which the log file is rotated
const MaxSize = 1 << 20

// Config controls logging
type Config struct {
	Enabled bool
	Level   string
	Dir     string
	Command string
}

// Logger is a charmbracelet logger bound to its output file
type Logger struct {
	*log.Logger
	file *os.File
}

// Init opens the log file and returns a JSON logger writing to it.
// A disabled config returns a logger that discards everything.
func Init(cfg Config) (*Logger, error) {
	if !cfg.Enabled {
		return Discard(), nil
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(cfg.Dir, FileName)
	if err := rotate(path, MaxSize); err != nil {
		// Non-fatal; keep appending to the current file
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(f, cfg.Level)
	if cfg.Command != "" {
		l = l.With("pid", os.Getpid(), "command", cfg.Command)
	}
	return &Logger{Logger: l, file: f}, nil
}

// New returns a JSON logger writing to w
func New(w io.Writer, level string) *Logger {
	return &Logger{Logger: newLogger(w, level)}
}

// Discard returns a logger that drops all output
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

func newLogger(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
	})
	l.SetFormatter(log.JSONFormatter)
	return l
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel converts a level name to a log level; unknown names are info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// rotate moves path to path.1 once it reaches limit bytes
func rotate(path string, limit int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < limit {
		return nil
	}
	return os.Rename(path, path+".1")
}
