// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package daytime

import (
	"fmt"
	"time"
)

// MaxTimerDuration is the largest duration a single Timer may declare: a
// full day, which defines an always-on timer on its own but forbids any
// further wrap-driven expansion during merge (see TimeInterval.SpansMidnight
// and schedule.Merge).
const MaxTimerDuration = 24 * time.Hour

// Duration is a non-negative, second-resolution time span.
type Duration struct {
	seconds int
}

// NewDuration validates 0 < d <= MaxTimerDuration and truncates to whole
// seconds.
func NewDuration(d time.Duration) (Duration, error) {
	if d <= 0 {
		return Duration{}, &ValidationError{Field: "duration", Value: int(d)}
	}
	if d > MaxTimerDuration {
		return Duration{}, &ValidationError{Field: "duration", Value: int(d)}
	}
	return Duration{seconds: int(d.Seconds())}, nil
}

// DurationFromSeconds is NewDuration taking whole seconds directly.
func DurationFromSeconds(seconds int) (Duration, error) {
	return NewDuration(time.Duration(seconds) * time.Second)
}

// Seconds returns the span as a time.Duration.
func (d Duration) Seconds() time.Duration {
	return time.Duration(d.seconds) * time.Second
}

// String renders the duration as whole seconds, e.g. "3600s".
func (d Duration) String() string {
	return fmt.Sprintf("%ds", d.seconds)
}
