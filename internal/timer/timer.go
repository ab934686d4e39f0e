// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package timer defines the immutable timer value types (spec component
// C3): a named daily on-window described by a start time and a duration,
// and an identifiable variant carrying a stable integer id assigned by
// the owning collection.
//
// Grounded on original_source/garden_water/timers/timer.py and
// identifiable_timer.py.
package timer

import (
	"errors"
	"fmt"

	"github.com/gardenwatch/timerflow/internal/daytime"
)

// ErrInvalidName is returned by New when name is empty.
var ErrInvalidName = errors.New("timer: name must not be empty")

// Timer is an immutable, named daily on-window.
type Timer struct {
	name      string
	startTime daytime.DayTime
	duration  daytime.Duration
}

// New constructs a Timer, validating that name is non-empty and that
// duration is a valid TimeInterval length (0 < d ≤ 24h, enforced by
// daytime.Duration itself).
func New(name string, startTime daytime.DayTime, duration daytime.Duration) (Timer, error) {
	if name == "" {
		return Timer{}, ErrInvalidName
	}
	return Timer{name: name, startTime: startTime, duration: duration}, nil
}

// Name returns the timer's name.
func (t Timer) Name() string { return t.name }

// StartTime returns the timer's configured start of day.
func (t Timer) StartTime() daytime.DayTime { return t.startTime }

// Duration returns the timer's configured on-duration.
func (t Timer) Duration() daytime.Duration { return t.duration }

// EndTime returns startTime + duration, wrapped to the 24-hour clock.
func (t Timer) EndTime() daytime.DayTime {
	return t.startTime.Add(t.duration)
}

// Interval returns the TimeInterval [startTime, endTime) this timer
// describes.
func (t Timer) Interval() daytime.TimeInterval {
	iv, err := daytime.NewInterval(t.startTime, t.EndTime())
	if err != nil {
		// Unreachable: duration is always > 0, so start != end.
		panic(fmt.Sprintf("timer: invariant violated building interval: %v", err))
	}
	return iv
}

// String renders the timer for logs: "name 08:00:00+3600s".
func (t Timer) String() string {
	return fmt.Sprintf("%s %s+%s", t.name, t.startTime, t.duration)
}

// IdentifiableTimer is a Timer plus a stable integer id, unique within
// its owning collection.
type IdentifiableTimer struct {
	Timer
	id int
}

// FromTimer lifts a Timer to an IdentifiableTimer by attaching id.
func FromTimer(t Timer, id int) IdentifiableTimer {
	return IdentifiableTimer{Timer: t, id: id}
}

// ToTimer projects an IdentifiableTimer back down to its bare Timer.
func (it IdentifiableTimer) ToTimer() Timer { return it.Timer }

// ID returns the timer's id within its owning collection.
func (it IdentifiableTimer) ID() int { return it.id }

// Equal reports whether two identifiable timers have the same id and
// the same underlying timer fields.
func (it IdentifiableTimer) Equal(other IdentifiableTimer) bool {
	return it.id == other.id &&
		it.name == other.name &&
		it.startTime.Equal(other.startTime) &&
		it.duration == other.duration
}

func (it IdentifiableTimer) String() string {
	return fmt.Sprintf("#%d %s", it.id, it.Timer)
}
