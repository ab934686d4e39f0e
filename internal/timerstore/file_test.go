// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_AddAllocatesMaxPlusOne(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	a, err := s.Add(mustTimer(t, "a", 1, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, a.ID())

	b, err := s.Add(mustTimer(t, "b", 2, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID())

	_, err = s.Remove(a.ID())
	require.NoError(t, err)

	c, err := s.Add(mustTimer(t, "c", 3, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, c.ID(), "durable variant allocates max(existing)+1, so the freed id 0 is not reused")
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	kept, err := s1.Add(mustTimer(t, "kept", 6, time.Hour))
	require.NoError(t, err)
	removed, err := s1.Add(mustTimer(t, "removed", 7, time.Hour))
	require.NoError(t, err)
	_, err = s1.Remove(removed.ID())
	require.NoError(t, err)

	s2, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := s2.Get(kept.ID())
	require.NoError(t, err)
	assert.True(t, got.Equal(kept))

	_, err = s2.Get(removed.ID())
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, s2.Len())
}

func TestFileStore_AddWithIDConflict(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.AddWithID(mustTimer(t, "a", 1, time.Hour), 3)
	require.NoError(t, err)

	_, err = s.AddWithID(mustTimer(t, "b", 2, time.Hour), 3)
	require.ErrorIs(t, err, ErrConflict)
}

func TestFileStore_RemoveNonExistentReportsFalse(t *testing.T) {
	t.Parallel()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	removed, err := s.Remove(42)
	require.NoError(t, err)
	assert.False(t, removed)
}
