// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"fmt"

	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/timer"
)

// timerDTO is the wire shape of a timer, grounded on
// original_source/backend/timeventx/timers/serialisation.py's
// timer_to_json: {id, name, startTime, duration}, startTime as
// "HH:MM:SS" and duration as whole seconds. ID is omitted on input for
// POST (a posted timer is never user-assigned an id) and always
// present on output.
type timerDTO struct {
	ID        *int   `json:"id,omitempty"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

func timerToDTO(t timer.IdentifiableTimer) timerDTO {
	id := t.ID()
	return timerDTO{
		ID:        &id,
		Name:      t.Name(),
		StartTime: t.StartTime().String(),
		Duration:  int(t.Duration().Seconds().Seconds()),
	}
}

// toTimer validates and converts the DTO into a bare Timer. It never
// looks at ID — callers that care whether one was supplied check
// d.ID themselves, matching the original's explicit 403 when a POST
// body carries one.
func (d timerDTO) toTimer() (timer.Timer, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(d.StartTime, "%d:%d:%d", &h, &m, &s); err != nil {
		return timer.Timer{}, badRequest(fmt.Sprintf("invalid startTime %q: %v", d.StartTime, err))
	}
	start, err := daytime.New(h, m, s)
	if err != nil {
		return timer.Timer{}, err
	}
	dur, err := daytime.DurationFromSeconds(d.Duration)
	if err != nil {
		return timer.Timer{}, err
	}
	return timer.New(d.Name, start, dur)
}

// intervalDTO is the wire shape of a merged on/off interval.
type intervalDTO struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// scheduleDTO is the response body of GET /api/v1/schedule.
type scheduleDTO struct {
	Intervals []intervalDTO `json:"intervals"`
	IsOn      bool          `json:"isOn"`
}
