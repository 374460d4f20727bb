package events

import (
	"context"
	"os"
)

type contextKey int

const (
	loggerKey contextKey = iota
	storePathKey
)

// FromContext extracts the logger from context, falling back to the
// package default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithStorePath tags the context and its logger with the target store file.
func WithStorePath(ctx context.Context, path string) context.Context {
	logger := FromContext(ctx).WithField("store", path)
	ctx = context.WithValue(ctx, storePathKey, path)
	return WithLogger(ctx, logger)
}

// GetStorePath retrieves the store path from context.
func GetStorePath(ctx context.Context) string {
	if p, ok := ctx.Value(storePathKey).(string); ok {
		return p
	}
	return ""
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	format: "text",
	output: os.Stderr,
	fields: make(map[string]interface{}),
}

// SetDefault sets the default logger.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
