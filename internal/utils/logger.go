package utils

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is a small leveled logger writing to a file, or to stderr when
// no file path is configured.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger creates a logger appending to filePath. An empty path logs
// to stderr instead.
func NewLogger(filePath string) (*Logger, error) {
	var w io.Writer = os.Stderr
	var file *os.File
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		file = f
	}

	return &Logger{
		file:   file,
		logger: log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.logger.SetPrefix("INFO: ")
	l.logger.Printf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.logger.SetPrefix("WARN: ")
	l.logger.Printf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.logger.SetPrefix("ERROR: ")
	l.logger.Printf(format, args...)
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
