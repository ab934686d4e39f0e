// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// RotatableFile is an io.Writer backed by a single append-only log file
// that can be rotated (renamed aside, reopened fresh) without losing any
// writes in flight, guarded by a mutex so concurrent handlers in a
// slog-multi fanout never interleave partial writes or race with a
// rotation.
type RotatableFile struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenRotatableFile opens (creating if necessary) the log file at path
// for appending.
func OpenRotatableFile(path string) (*RotatableFile, error) {
	f, err := openAppend(path)
	if err != nil {
		return nil, fmt.Errorf("logger: opening log file %s: %w", path, err)
	}
	return &RotatableFile{path: path, file: f}, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Write implements io.Writer.
func (r *RotatableFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Write(p)
}

// Rotate closes the current file, renames it aside with a timestamp
// suffix, and reopens path fresh. Safe to call concurrently with Write.
func (r *RotatableFile) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.file.Close(); err != nil {
		return fmt.Errorf("logger: closing log file before rotation: %w", err)
	}
	rotated := fmt.Sprintf("%s.%s", r.path, time.Now().Format("20060102T150405"))
	if err := os.Rename(r.path, rotated); err != nil {
		return fmt.Errorf("logger: renaming log file for rotation: %w", err)
	}
	f, err := openAppend(r.path)
	if err != nil {
		return fmt.Errorf("logger: reopening log file after rotation: %w", err)
	}
	r.file = f
	return nil
}

// Close closes the underlying file, releasing it on every code path.
func (r *RotatableFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
