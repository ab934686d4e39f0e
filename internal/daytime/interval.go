// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package daytime

import "errors"

// ErrEmptyInterval is returned by NewInterval when start == end.
var ErrEmptyInterval = errors.New("daytime: interval must be non-zero (start equals end)")

// TimeInterval is a half-open [start, end) span on the 24-hour clock. It is
// ordinary when start < end and spans midnight when start > end.
type TimeInterval struct {
	Start DayTime
	End   DayTime
}

// NewInterval constructs a TimeInterval, rejecting a zero-length interval.
func NewInterval(start, end DayTime) (TimeInterval, error) {
	if start.Equal(end) {
		return TimeInterval{}, ErrEmptyInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// SpansMidnight reports whether the interval wraps past 24:00:00.
func (t TimeInterval) SpansMidnight() bool {
	return t.Start.After(t.End)
}

// Duration returns the span covered by the interval.
func (t TimeInterval) Duration() Duration {
	if !t.SpansMidnight() {
		d, _ := DurationFromSeconds(t.End.AsSeconds() - t.Start.AsSeconds())
		return d
	}
	d, _ := DurationFromSeconds(secondsPerDay - t.Start.AsSeconds() + t.End.AsSeconds())
	return d
}

// Intersects reports whether t and other share at least one instant under
// the semi-open [start, end) convention; touching endpoints do not
// intersect, which lets the merger treat adjacent intervals as mergeable
// without being flagged as overlapping.
//
// The algorithm (spec.md §4.1): sort by start; call the earlier-starting
// interval A and the other B. If both span midnight they both contain
// midnight and therefore intersect. If only A spans midnight, swap so A is
// the ordinary one. If B spans midnight, they intersect iff B.Start <
// A.End or B.End > A.Start; otherwise iff B.Start < A.End and B.End >
// A.Start.
func (t TimeInterval) Intersects(other TimeInterval) bool {
	a, b := t, other
	if other.Start.Before(t.Start) {
		a, b = other, t
	}

	if a.SpansMidnight() {
		if b.SpansMidnight() {
			return true
		}
		a, b = b, a
	}

	if b.SpansMidnight() {
		return b.Start.Before(a.End) || b.End.After(a.Start)
	}
	return b.Start.Before(a.End) && b.End.After(a.Start)
}

// Contains reports whether instant is inside the half-open interval.
func (t TimeInterval) Contains(instant DayTime) bool {
	if !t.SpansMidnight() {
		return !instant.Before(t.Start) && instant.Before(t.End)
	}
	return !instant.Before(t.Start) || instant.Before(t.End)
}

// String renders "[start,end)".
func (t TimeInterval) String() string {
	return "[" + t.Start.String() + "," + t.End.String() + ")"
}
