// Package logger provides the logging facilities used by the flocker CLI.
// It separates internal debug logging, written through log/slog to an
// optional log file, from user-facing messages written to stdout/stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Logger is the logging interface used by the CLI. Debug-level methods
// (Info, Warning, Error) go to the log file when file logging is enabled;
// user-facing methods (InfoToUser, Success) are always shown.
type Logger interface {
	// Info logs an informational message for debugging purposes.
	// The format string follows fmt.Printf style formatting.
	Info(format string, args ...interface{})

	// Warning logs a warning for debugging purposes. Shown to the user
	// only in verbose mode.
	Warning(format string, args ...interface{})

	// Error logs an operational failure. Always shown to the user.
	Error(format string, args ...interface{})

	// InfoToUser logs an informational message intended for users,
	// regardless of verbose settings.
	InfoToUser(format string, args ...interface{})

	// Success logs a successful completion message to the user.
	Success(format string, args ...interface{})

	// Close flushes and closes any open log file handle. Call it before
	// the process exits.
	Close() error
}

// DefaultLogger implements Logger over log/slog.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New creates a Logger. When enabled is true, debug logs are appended to
// logFile; verbose additionally mirrors warnings to the user.
func New(enabled bool, logFile string, verbose bool) Logger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers.
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var logger *slog.Logger
	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0755); err != nil {
				_, _ = fmt.Fprintf(stderr, "failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			file = f
			logger = slog.New(slog.NewTextHandler(f, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(stderr, opts))
			_, _ = fmt.Fprintf(stderr, "failed to open log file: %v, using stderr instead\n", err)
		}
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Info logs an informational message (file only).
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Warning logs a warning; shown to the user only in verbose mode.
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Warn(msg)
	}
	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "warning: %s\n", msg)
	}
}

// Error logs an error; always shown to the user.
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Error(msg)
	}
	_, _ = fmt.Fprintf(l.stderr, "error: %s\n", msg)
}

// InfoToUser logs an informational message to both file and stdout.
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Info(msg)
	}
	_, _ = fmt.Fprintf(l.stdout, "%s\n", msg)
}

// Success logs a success message to both file and stdout.
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Info(msg)
	}
	_, _ = fmt.Fprintf(l.stdout, "✓ %s\n", msg)
}

// Close flushes and closes the log file handle if one is open.
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return err
	}
	err := l.file.Close()
	l.file = nil
	return err
}
