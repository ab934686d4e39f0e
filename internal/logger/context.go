// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type contextKey struct{}

var defaultLogger = sync.OnceValue(func() Logger {
	return NewLogger()
})

// WithLogger attaches l to ctx, to be retrieved with FromContext.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the Logger attached to ctx, or a default
// text-to-stdout logger if none was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return defaultLogger()
}

func loggerFrom(ctx context.Context) *logger {
	l := FromContext(ctx)
	if impl, ok := l.(*logger); ok {
		return impl
	}
	return &logger{handler: slog.Default().Handler()}
}

// Debug logs at debug level using the Logger attached to ctx, attributing
// the call site to the immediate caller rather than this function.
func Debug(ctx context.Context, msg string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelDebug, msg, args...)
}

// Info logs at info level using the Logger attached to ctx.
func Info(ctx context.Context, msg string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelInfo, msg, args...)
}

// Warn logs at warn level using the Logger attached to ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelWarn, msg, args...)
}

// Error logs at error level using the Logger attached to ctx.
func Error(ctx context.Context, msg string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelError, msg, args...)
}

// Debugf logs a formatted message at debug level using the Logger
// attached to ctx.
func Debugf(ctx context.Context, format string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level using the Logger
// attached to ctx.
func Infof(ctx context.Context, format string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warn level using the Logger
// attached to ctx.
func Warnf(ctx context.Context, format string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level using the Logger
// attached to ctx.
func Errorf(ctx context.Context, format string, args ...any) {
	loggerFrom(ctx).logAt(3, slog.LevelError, fmt.Sprintf(format, args...))
}
