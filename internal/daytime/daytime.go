// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package daytime implements the wall-clock time-of-day and interval
// algebra the timer runner schedules against: DayTime, Duration bounds and
// TimeInterval, including midnight-spanning intersection. The interval
// merger built on it is in package schedule.
package daytime

import "fmt"

const secondsPerDay = 24 * 60 * 60

// DayTime is a wall-clock time-of-day with one-second resolution, totally
// ordered by seconds since midnight.
type DayTime struct {
	hour, minute, second int
}

// New validates hour/minute/second and constructs a DayTime.
func New(hour, minute, second int) (DayTime, error) {
	if hour < 0 || hour > 23 {
		return DayTime{}, &ValidationError{Field: "hour", Value: hour}
	}
	if minute < 0 || minute > 59 {
		return DayTime{}, &ValidationError{Field: "minute", Value: minute}
	}
	if second < 0 || second > 59 {
		return DayTime{}, &ValidationError{Field: "second", Value: second}
	}
	return DayTime{hour: hour, minute: minute, second: second}, nil
}

// MustNew is New but panics on an invalid triple. Intended for literals in
// tests and compiled-in defaults, never for user input.
func MustNew(hour, minute, second int) DayTime {
	dt, err := New(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return dt
}

// FromSeconds builds a DayTime from seconds-since-midnight, wrapping modulo
// one day.
func FromSeconds(seconds int) DayTime {
	seconds %= secondsPerDay
	if seconds < 0 {
		seconds += secondsPerDay
	}
	return DayTime{hour: seconds / 3600, minute: (seconds % 3600) / 60, second: seconds % 60}
}

// Hour, Minute and Second expose the triple.
func (d DayTime) Hour() int   { return d.hour }
func (d DayTime) Minute() int { return d.minute }
func (d DayTime) Second() int { return d.second }

// AsSeconds returns seconds elapsed since midnight.
func (d DayTime) AsSeconds() int {
	return d.hour*3600 + d.minute*60 + d.second
}

// Before reports whether d occurs earlier in the day than other.
func (d DayTime) Before(other DayTime) bool { return d.AsSeconds() < other.AsSeconds() }

// After reports whether d occurs later in the day than other.
func (d DayTime) After(other DayTime) bool { return d.AsSeconds() > other.AsSeconds() }

// Equal reports triple equality.
func (d DayTime) Equal(other DayTime) bool { return d.AsSeconds() == other.AsSeconds() }

// Add returns d advanced by dur, wrapping modulo one day.
func (d DayTime) Add(dur Duration) DayTime {
	return FromSeconds(d.AsSeconds() + dur.seconds)
}

// DistanceForward returns the non-negative number of seconds travelling
// forward on the clock from d to other, wrapping through midnight if
// needed. DistanceForward(d, d) is 0.
func (d DayTime) DistanceForward(other DayTime) int {
	delta := other.AsSeconds() - d.AsSeconds()
	if delta < 0 {
		delta += secondsPerDay
	}
	return delta
}

// String renders HH:MM:SS.
func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.hour, d.minute, d.second)
}

// ValidationError reports an out-of-range DayTime or Duration field.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("daytime: invalid %s: %d", e.Field, e.Value)
}
