// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNothingConfigured(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	yaml := "log_level: debug\nport: 9090\nstore_backend: file\nstore_dir: /tmp/timers\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "/tmp/timers", cfg.StoreDir)
	assert.Equal(t, "text", cfg.LogFormat, "unrelated fields should keep their default")
}

func TestLoad_EnvironmentOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 9090\n"), 0o644))
	t.Setenv("TIMERFLOW_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_RejectsInvalidStoreBackend(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store_backend: postgres\n"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsNonPositiveMinPollPeriod(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("min_poll_period: 0s\n"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestDefaults_MinPollPeriodIsOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, Defaults().MinPollPeriod)
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(orig) }
}
