// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/gale/internal/core/ports"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileEnv names an optional file the logger mirrors its output to,
// rotated so long watch sessions do not grow without bound.
const LogFileEnv = "GALE_LOG_FILE"

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	mu     sync.RWMutex
}

// New creates a new Logger instance. Output goes to stderr as per
// 12-factor app guidelines; when GALE_LOG_FILE is set it is duplicated
// into a rotating log file.
func New() ports.Logger {
	out := io.Writer(os.Stderr)
	if path := os.Getenv(LogFileEnv); path != "" {
		if w, err := fileWriter(path); err == nil {
			out = io.MultiWriter(os.Stderr, w)
		}
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

// fileWriter builds a rotating writer for the given log file path.
func fileWriter(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}, nil
}

// SetOutput updates the logger's output destination.
// This is thread-safe and replaces the underlying slog handler.
func (l *Logger) SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(handler)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}
