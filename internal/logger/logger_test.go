// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_SourceLocation(t *testing.T) {
	tests := []struct {
		name          string
		logFunc       func(Logger)
		shouldNotHave []string
	}{
		{"Info", func(l Logger) { l.Info("test message") }, []string{"logger.go", "slog-multi"}},
		{"Debug", func(l Logger) { l.Debug("debug message") }, []string{"logger.go", "slog-multi"}},
		{"Error", func(l Logger) { l.Error("error message") }, []string{"logger.go", "slog-multi"}},
		{"Warn", func(l Logger) { l.Warn("warn message") }, []string{"logger.go", "slog-multi"}},
		{"Infof", func(l Logger) { l.Infof("formatted %s", "message") }, []string{"logger.go", "slog-multi"}},
		{"Debugf", func(l Logger) { l.Debugf("debug %d", 42) }, []string{"logger.go", "slog-multi"}},
		{"Errorf", func(l Logger) { l.Errorf("error %v", "test") }, []string{"logger.go", "slog-multi"}},
		{"Warnf", func(l Logger) { l.Warnf("warning %s", "test") }, []string{"logger.go", "slog-multi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(WithDebug(), WithFormat("text"), WithWriter(&buf), WithQuiet())

			tt.logFunc(l)

			output := buf.String()
			assert.Contains(t, output, "logger_test.go:")
			for _, absent := range tt.shouldNotHave {
				assert.NotContains(t, output, absent)
			}
		})
	}
}

func TestLogger_SourceLocationWithContext(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(context.Context)
	}{
		{"Info", func(ctx context.Context) { Info(ctx, "context info message") }},
		{"Debug", func(ctx context.Context) { Debug(ctx, "context debug message") }},
		{"Error", func(ctx context.Context) { Error(ctx, "context error message") }},
		{"Warn", func(ctx context.Context) { Warn(ctx, "context warn message") }},
		{"Infof", func(ctx context.Context) { Infof(ctx, "formatted %s", "context") }},
		{"Debugf", func(ctx context.Context) { Debugf(ctx, "debug %d", 123) }},
		{"Errorf", func(ctx context.Context) { Errorf(ctx, "error %v", "context") }},
		{"Warnf", func(ctx context.Context) { Warnf(ctx, "warning %s", "context") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(WithDebug(), WithFormat("text"), WithWriter(&buf), WithQuiet())
			ctx := WithLogger(context.Background(), l)

			tt.logFunc(ctx)

			output := buf.String()
			assert.Contains(t, output, "logger_test.go:")
			assert.NotContains(t, output, "logger.go")
			assert.NotContains(t, output, "context.go")
			assert.NotContains(t, output, "slog-multi")
		})
	}
}

func TestLogger_SourceLocationWithNestedCalls(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithDebug(), WithFormat("text"), WithWriter(&buf), WithQuiet())

	logHelper := func(l Logger) { l.Info("from helper") }
	outerHelper := func(l Logger) { logHelper(l) }
	outerHelper(l)

	output := buf.String()
	assert.NotContains(t, output, "logger.go")
	assert.Contains(t, output, "logger_test.go")
}

func TestLogger_SourceLocationWithAttributesAndGroup(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithDebug(), WithFormat("text"), WithWriter(&buf), WithQuiet())

	l.With("key", "value").Info("with attributes")
	assert.NotContains(t, buf.String(), "logger.go")
	assert.Contains(t, buf.String(), "logger_test.go")

	buf.Reset()
	l.WithGroup("test-group").Info("with group")
	assert.NotContains(t, buf.String(), "logger.go")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestLogger_SourceLocationDisabledInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormat("text"), WithWriter(&buf), WithQuiet())

	l.Info("production mode")
	assert.NotContains(t, buf.String(), "source=")
}

func TestLogger_JSONFormatSourceLocation(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithDebug(), WithFormat("json"), WithWriter(&buf), WithQuiet())

	l.Info("json format test")
	output := buf.String()
	assert.False(t, strings.Contains(output, "logger.go"))
	assert.Contains(t, output, "logger_test.go")
}

func TestLogger_FanoutWritesToBothSinks(t *testing.T) {
	var stdoutProxy, file bytes.Buffer
	// Quiet is off, but we can't intercept real os.Stdout here; this
	// instead verifies non-quiet construction doesn't panic and still
	// reaches the explicit writer.
	l := NewLogger(WithFormat("text"), WithWriter(&file))
	l.Info("fanout message")
	assert.Contains(t, file.String(), "fanout message")
	_ = stdoutProxy
}
