// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package schedule implements the interval merger (spec component C2):
// collapsing a multiset of daily TimeIntervals into the minimal sorted
// tuple of non-overlapping, non-touching intervals covering the same
// cyclic union, detecting the degenerate "always on" case.
//
// Grounded on original_source/garden_water/timers/intervals.py's
// merge_and_sort_intervals, adapted to the decision table spec.md §4.2
// spells out explicitly (see the design note in spec.md §9: "the repository
// contains multiple iterations of this logic; preserve exactly this
// decision table").
package schedule

import (
	"errors"
	"sort"

	"github.com/gardenwatch/timerflow/internal/daytime"
)

// ErrAlwaysOn is returned by Merge when the union of the input intervals
// covers the full 24-hour circle, leaving no off-time.
var ErrAlwaysOn = errors.New("schedule: intervals overlap such that there is no off time")

// Merge collapses intervals into the minimal sorted (by Start), pairwise
// non-intersecting and non-touching tuple covering the same cyclic union.
// An empty input returns an empty, nil-error result.
func Merge(intervals []daytime.TimeInterval) ([]daytime.TimeInterval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	sorted := make([]daytime.TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	result := []daytime.TimeInterval{sorted[0]}

	for _, iv := range sorted[1:] {
		last := result[len(result)-1]
		start, end := iv.Start, iv.End

		if iv.Intersects(last) || last.End.Equal(iv.Start) {
			candidates := [4]daytime.TimeInterval{
				{Start: last.Start, End: last.End},
				{Start: last.Start, End: iv.End},
				{Start: iv.Start, End: last.End},
				{Start: iv.Start, End: iv.End},
			}
			best := candidates[0]
			for _, c := range candidates[1:] {
				if c.Duration().Seconds() > best.Duration().Seconds() {
					best = c
				}
			}

			if best.Start.Equal(best.End) {
				return nil, ErrAlwaysOn
			}
			gap := daytime.TimeInterval{Start: best.End, End: best.Start}
			if iv.Intersects(gap) || last.Intersects(gap) {
				return nil, ErrAlwaysOn
			}

			start, end = best.Start, best.End
			result = result[:len(result)-1]
		}

		if iv.SpansMidnight() {
			for len(result) > 0 {
				front := result[0]
				if iv.End.Before(front.Start) {
					break
				}
				end = maxByClock(iv.End, front.End)
				result = result[1:]
			}
		}

		if start.Equal(end) {
			return nil, ErrAlwaysOn
		}
		result = append(result, daytime.TimeInterval{Start: start, End: end})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func maxByClock(a, b daytime.DayTime) daytime.DayTime {
	if a.After(b) {
		return a
	}
	return b
}
