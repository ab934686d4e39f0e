// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"encoding/json"
	"fmt"

	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/timer"
)

// record is the on-disk shape of a timer: {id, name, startTime
// ("HH:MM:SS"), duration (seconds, integer)}, as spelled out by the
// durable-variant contract.
type record struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

func toRecord(t timer.IdentifiableTimer) record {
	st := t.StartTime()
	return record{
		ID:        t.ID(),
		Name:      t.Name(),
		StartTime: st.String(),
		Duration:  int(t.Duration().Seconds().Seconds()),
	}
}

func fromRecord(r record) (timer.IdentifiableTimer, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(r.StartTime, "%d:%d:%d", &h, &m, &s); err != nil {
		return timer.IdentifiableTimer{}, fmt.Errorf("timerstore: malformed startTime %q: %w", r.StartTime, err)
	}
	start, err := daytime.New(h, m, s)
	if err != nil {
		return timer.IdentifiableTimer{}, err
	}
	dur, err := daytime.DurationFromSeconds(r.Duration)
	if err != nil {
		return timer.IdentifiableTimer{}, err
	}
	tm, err := timer.New(r.Name, start, dur)
	if err != nil {
		return timer.IdentifiableTimer{}, err
	}
	return timer.FromTimer(tm, r.ID), nil
}

func marshalRecord(t timer.IdentifiableTimer) ([]byte, error) {
	return json.Marshal(toRecord(t))
}

func unmarshalRecord(data []byte) (timer.IdentifiableTimer, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return timer.IdentifiableTimer{}, err
	}
	return fromRecord(r)
}
