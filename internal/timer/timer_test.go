// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenwatch/timerflow/internal/daytime"
)

func mustDuration(t *testing.T, d time.Duration) daytime.Duration {
	t.Helper()
	dur, err := daytime.NewDuration(d)
	require.NoError(t, err)
	return dur
}

func TestNew_RejectsEmptyName(t *testing.T) {
	t.Parallel()
	_, err := New("", daytime.MustNew(8, 0, 0), mustDuration(t, time.Hour))
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestEndTime_WrapsPastMidnight(t *testing.T) {
	t.Parallel()
	tm, err := New("evening watering", daytime.MustNew(23, 30, 0), mustDuration(t, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, daytime.MustNew(0, 30, 0), tm.EndTime())
}

func TestInterval_MatchesStartAndEnd(t *testing.T) {
	t.Parallel()
	tm, err := New("morning", daytime.MustNew(6, 0, 0), mustDuration(t, 90*time.Minute))
	require.NoError(t, err)
	want, err := daytime.NewInterval(daytime.MustNew(6, 0, 0), daytime.MustNew(7, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, want, tm.Interval())
}

func TestFromTimerAndToTimer_RoundTrip(t *testing.T) {
	t.Parallel()
	tm, err := New("drip", daytime.MustNew(5, 0, 0), mustDuration(t, 20*time.Minute))
	require.NoError(t, err)
	idt := FromTimer(tm, 7)
	assert.Equal(t, 7, idt.ID())
	assert.Equal(t, tm, idt.ToTimer())
}

func TestIdentifiableTimer_Equal(t *testing.T) {
	t.Parallel()
	tm, err := New("drip", daytime.MustNew(5, 0, 0), mustDuration(t, 20*time.Minute))
	require.NoError(t, err)
	a := FromTimer(tm, 1)
	b := FromTimer(tm, 1)
	c := FromTimer(tm, 2)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
