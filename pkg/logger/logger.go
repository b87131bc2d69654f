// Package logger provides structured logging for the a11yowl front end
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level logrus.Level) *Logger {
	logger := logrus.New()

	logger.SetLevel(level)

	// Use JSON formatter for structured logging in production
	if os.Getenv("ENV") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	return &Logger{Logger: logger}
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

// ParseLevel turns a config string into a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// WithContext adds context-specific fields to the logger
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithContext(ctx)

	if reqID := ctx.Value(RequestIDKey); reqID != nil {
		entry = entry.WithField("request_id", reqID)
	}

	return entry
}

// WithScan adds scan-specific fields to the logger
func (l *Logger) WithScan(scanID string) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"scan_id": scanID,
	})
}

// WithError adds error context to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// LogCall logs the duration and outcome of a backend call
func (l *Logger) LogCall(op string, fn func() error) error {
	start := time.Now()

	err := fn()

	fields := Fields{
		"op":       op,
		"duration": time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err.Error()
		l.WithFields(fields).Warn("Backend call failed")
	} else {
		l.WithFields(fields).Debug("Backend call completed")
	}

	return err
}

type ctxKey string

// RequestIDKey is the context key the HTTP layer stores request ids under.
const RequestIDKey ctxKey = "request_id"

// Default logger instance
var defaultLogger = NewLogger(logrus.InfoLevel)

// SetLevel sets the log level for the default logger
func SetLevel(level logrus.Level) {
	defaultLogger.SetLevel(level)
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// WithFields returns an entry with the specified fields using the default logger
func WithFields(fields Fields) *logrus.Entry {
	return defaultLogger.WithFields(fields)
}
