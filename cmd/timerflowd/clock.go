// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"time"

	"github.com/gardenwatch/timerflow/internal/daytime"
)

// systemClock implements runner.Clock against the real wall clock.
// Every other clock in the codebase is a deterministic fake used in
// tests; this is the only place real time enters the service.
func systemClock() (daytime.DayTime, error) {
	hour, minute, second := time.Now().Clock()
	return daytime.New(hour, minute, second)
}
