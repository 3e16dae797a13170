package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger interface for logging functionality
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Options configures a StandardLogger
type Options struct {
	Verbose bool   // emit Debug messages
	Quiet   bool   // suppress console output
	LogFile string // also append messages to this file
}

// StandardLogger implements Logger interface
type StandardLogger struct {
	verbose bool
	logger  *log.Logger
	file    *os.File
	now     func() time.Time
}

// NewWithOptions creates a logger that writes to the console, a log file, or both
func NewWithOptions(opts Options) (*StandardLogger, error) {
	l := &StandardLogger{
		verbose: opts.Verbose,
		now:     time.Now,
	}

	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, os.Stdout)
	}
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	if len(writers) > 0 {
		l.logger = log.New(io.MultiWriter(writers...), "", 0)
	}
	return l, nil
}

// NewWriter creates a logger writing to w
func NewWriter(w io.Writer, verbose bool) *StandardLogger {
	return &StandardLogger{
		verbose: verbose,
		logger:  log.New(w, "", 0),
		now:     time.Now,
	}
}

// Debug logs debug messages (only in verbose mode)
func (l *StandardLogger) Debug(format string, args ...interface{}) {
	if l.verbose {
		l.logWithLevel("DEBUG", format, args...)
	}
}

// Info logs informational messages
func (l *StandardLogger) Info(format string, args ...interface{}) {
	l.logWithLevel("INFO", format, args...)
}

// Warn logs warning messages
func (l *StandardLogger) Warn(format string, args ...interface{}) {
	l.logWithLevel("WARN", format, args...)
}

// Error logs error messages
func (l *StandardLogger) Error(format string, args ...interface{}) {
	l.logWithLevel("ERROR", format, args...)
}

// Verbose reports whether debug messages are emitted
func (l *StandardLogger) Verbose() bool {
	return l.verbose
}

// Close releases the log file, if any
func (l *StandardLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// logWithLevel logs a message with the specified level
func (l *StandardLogger) logWithLevel(level string, format string, args ...interface{}) {
	// Skip logging if logger is nil (quiet mode)
	if l.logger == nil {
		return
	}
	timestamp := l.now().Format("15:04:05")
	prefix := fmt.Sprintf("[%s] %s: ", timestamp, level)
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%s%s", prefix, message)
}
