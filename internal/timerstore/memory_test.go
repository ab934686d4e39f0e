// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/timer"
)

func mustTimer(t *testing.T, name string, hour int, dur time.Duration) timer.Timer {
	t.Helper()
	d, err := daytime.NewDuration(dur)
	require.NoError(t, err)
	tm, err := timer.New(name, daytime.MustNew(hour, 0, 0), d)
	require.NoError(t, err)
	return tm
}

func TestMemoryStore_AddAllocatesSmallestFreeID(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

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
	assert.Equal(t, 0, c.ID(), "freed id 0 should be reused before allocating 2")
}

func TestMemoryStore_AddWithIDConflict(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	_, err := s.AddWithID(mustTimer(t, "a", 1, time.Hour), 5)
	require.NoError(t, err)

	_, err = s.AddWithID(mustTimer(t, "b", 2, time.Hour), 5)
	require.ErrorIs(t, err, ErrConflict)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	_, err := s.Get(99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RemoveReportsWhetherAnythingRemoved(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	added, err := s.Add(mustTimer(t, "a", 1, time.Hour))
	require.NoError(t, err)

	removed, err := s.Remove(added.ID())
	require.NoError(t, err)
	assert.True(t, removed)

	removedAgain, err := s.Remove(added.ID())
	require.NoError(t, err)
	assert.False(t, removedAgain)
}

func TestMemoryStore_ContainsChecksValueEquality(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	added, err := s.Add(mustTimer(t, "a", 1, time.Hour))
	require.NoError(t, err)

	assert.True(t, s.Contains(added))

	other := timer.FromTimer(mustTimer(t, "different", 5, time.Hour), added.ID())
	assert.False(t, s.Contains(other))
}

func TestMemoryStore_LenAndIter(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	assert.Equal(t, 0, s.Len())

	_, err := s.Add(mustTimer(t, "a", 1, time.Hour))
	require.NoError(t, err)
	_, err = s.Add(mustTimer(t, "b", 2, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Iter(), 2)
}
