// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package runner implements the timer runner (spec component C6): the
// long-running cooperative task that owns the current merged schedule,
// computes the next on/off transition, waits for it, dispatches the
// on/off action callbacks, and reacts to edits made to the underlying
// timer collection while it runs.
//
// Grounded on spec.md §4.6's state machine description; there is no
// single original_source file this maps onto one-to-one (the Python
// project splits the loop across timeventx's main task and
// garden_water's scheduler), so the control flow here follows spec.md's
// numbered steps directly, translated into Go's explicit-error,
// goroutine-plus-mutex idiom in place of the original's single
// cooperative asyncio task. Concurrency is real here (HTTP handlers run
// on their own goroutines), so spec.md §5's "no locks are needed because
// no two operations ever run concurrently" becomes a mutex-guarded
// snapshot instead of an assumption.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gardenwatch/timerflow/internal/action"
	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/logger"
	"github.com/gardenwatch/timerflow/internal/schedule"
	"github.com/gardenwatch/timerflow/internal/timer"
	"github.com/gardenwatch/timerflow/internal/timerstore"
)

// ErrAlreadyRunning is returned by Run when a prior invocation is still
// active.
var ErrAlreadyRunning = errors.New("runner: already running")

// ErrStopPreset is returned by Run when a stop was requested before the
// run started.
var ErrStopPreset = errors.New("runner: stop requested before run started")

// ErrNoTimers is returned by NextInterval when the merged schedule is
// empty.
var ErrNoTimers = errors.New("runner: no timers configured")

// Clock returns the current wall-clock time of day. It is the only
// source of "now" the runner consults; tests inject a deterministic
// fake. Clock-getter errors are surfaced and terminate Run.
type Clock func() (daytime.DayTime, error)

// Runner translates a live timer collection into a stream of on/off
// action invocations.
type Runner struct {
	store     *timerstore.Listenable
	onAction  func(context.Context) error
	offAction func(context.Context) error
	clock     Clock
	minPoll   time.Duration
	log       logger.Logger

	mu              sync.Mutex
	merged          []daytime.TimeInterval
	turnedOn        bool
	running         bool
	stopRequested   bool
	changeSignalled bool
	wake            chan struct{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithMinPollPeriod overrides the default 1-second poll cadence.
func WithMinPollPeriod(d time.Duration) Option {
	return func(r *Runner) { r.minPoll = d }
}

// WithLogger attaches l for the runner's own diagnostic logging.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New constructs a Runner over store, registering listeners that
// recompute the merged schedule and signal change on every add/remove.
func New(store *timerstore.Listenable, controller action.Controller, clock Clock, opts ...Option) *Runner {
	r := &Runner{
		store:     store,
		onAction:  controller.On,
		offAction: controller.Off,
		clock:     clock,
		minPoll:   time.Second,
		log:       logger.NewLogger(),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.recomputeMerged()
	store.OnAdded(func(timer.IdentifiableTimer) { r.signalChange() })
	store.OnRemoved(func(int) { r.signalChange() })

	return r
}

func (r *Runner) recomputeMerged() {
	intervals := make([]daytime.TimeInterval, 0, r.store.Len())
	for _, t := range r.store.Iter() {
		intervals = append(intervals, t.Interval())
	}
	merged, err := schedule.Merge(intervals)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.log.Warn("timer set has no off-time, treating as empty schedule", "error", err)
		r.merged = nil
		return
	}
	r.merged = merged
}

// Refresh re-reads the backing store and wakes Run as if a timer had
// been added or removed. Callers that mutate the store out of band
// from Runner's own Listenable (a directory watcher noticing another
// process editing the files directly) use this to publish that change,
// since Listenable only fires its listeners for edits made through its
// own Add/Remove/AddWithID methods.
func (r *Runner) Refresh() {
	r.signalChange()
}

func (r *Runner) signalChange() {
	r.recomputeMerged()
	r.mu.Lock()
	r.changeSignalled = true
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// OnOffIntervals returns the current merged schedule snapshot. Always
// legal, whether or not Run is active.
func (r *Runner) OnOffIntervals() []daytime.TimeInterval {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]daytime.TimeInterval, len(r.merged))
	copy(out, r.merged)
	return out
}

// IsOn reports whether now lies inside some merged interval.
func (r *Runner) IsOn() (bool, error) {
	now, err := r.clock()
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range r.merged {
		if iv.Contains(now) {
			return true, nil
		}
	}
	return false, nil
}

// NextInterval returns the merged interval that governs the current or
// next transition, and whether it is already active.
//
// Algorithm (spec.md §4.6): scan merged intervals in start order for one
// that contains now (on_now=true). Otherwise return the first interval
// with start >= now (on_now=false) — unless it is the first in the list
// and the last interval spans midnight and still covers now, in which
// case return the last interval with on_now=true. If nothing starts at
// or after now, return the first interval for the next cycle
// (on_now=false).
func (r *Runner) NextInterval() (daytime.TimeInterval, bool, error) {
	now, err := r.clock()
	if err != nil {
		return daytime.TimeInterval{}, false, err
	}

	r.mu.Lock()
	merged := make([]daytime.TimeInterval, len(r.merged))
	copy(merged, r.merged)
	r.mu.Unlock()

	if len(merged) == 0 {
		return daytime.TimeInterval{}, false, ErrNoTimers
	}

	for _, iv := range merged {
		if iv.Contains(now) {
			return iv, true, nil
		}
	}

	for i, iv := range merged {
		if !iv.Start.Before(now) {
			if i == 0 {
				last := merged[len(merged)-1]
				if last.SpansMidnight() && last.Contains(now) {
					return last, true, nil
				}
			}
			return iv, false, nil
		}
	}

	return merged[0], false, nil
}

// RequestStop asks an active Run to stop at its next opportunity.
func (r *Runner) RequestStop() {
	r.mu.Lock()
	r.stopRequested = true
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run executes the state machine described in spec.md §4.6 until
// stopped or ctx is cancelled. Only one invocation may be active at a
// time.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	if r.stopRequested {
		r.mu.Unlock()
		return ErrStopPreset
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	for {
		if r.shouldStop() {
			return r.stopAndReturn(ctx)
		}

		if r.emptySchedule() {
			if r.isTurnedOn() {
				r.dispatchOff(ctx)
			}
			if stop, err := r.awaitChange(ctx); stop || err != nil {
				return err
			}
			continue
		}

		r.clearChangeSignalled()
		next, onNow, err := r.NextInterval()
		if errors.Is(err, ErrNoTimers) {
			continue
		}
		if err != nil {
			return fmt.Errorf("runner: reading clock: %w", err)
		}

		firstSeen, err := r.clock()
		if err != nil {
			return fmt.Errorf("runner: reading clock: %w", err)
		}

		if !onNow {
			if r.isTurnedOn() {
				r.dispatchOff(ctx)
			}
			result, err := r.waitUntil(ctx, firstSeen, next.Start)
			if err != nil {
				return err
			}
			switch result {
			case waitInterrupted:
				continue
			case waitMissed:
				r.log.Info("timer interval start was skipped, clock appears to have jumped", "interval", next.String())
				continue
			}
		}

		now, err := r.clock()
		if err != nil {
			return fmt.Errorf("runner: reading clock: %w", err)
		}
		if missPredicate(firstSeen, next.End)(now) {
			r.log.Warn("missed entire on-window, clock appears to have jumped", "interval", next.String())
			continue
		}

		if !r.isTurnedOn() {
			r.dispatchOn(ctx)
		}
		result, err := r.waitUntil(ctx, firstSeen, next.End)
		if err != nil {
			return err
		}
		if result == waitInterrupted {
			continue
		}
		// waitCompleted and waitMissed both mean "we're past the end of
		// the window now" and get the same off-dispatch.
		r.dispatchOff(ctx)
	}
}

func (r *Runner) shouldStop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopRequested
}

func (r *Runner) stopAndReturn(ctx context.Context) error {
	if r.isTurnedOn() {
		r.dispatchOff(ctx)
	}
	r.mu.Lock()
	r.stopRequested = false
	r.turnedOn = false
	r.mu.Unlock()
	return nil
}

func (r *Runner) emptySchedule() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.merged) == 0
}

func (r *Runner) isTurnedOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turnedOn
}

func (r *Runner) clearChangeSignalled() {
	r.mu.Lock()
	r.changeSignalled = false
	r.mu.Unlock()
}

func (r *Runner) consumeChangeSignalled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.changeSignalled {
		r.changeSignalled = false
		return true
	}
	return false
}

// dispatchOn invokes the on-action if not already turned on, guarding
// so repeated on-dispatch is a no-op. Dispatch is fire-and-forget: a
// failing action is logged, never retried synchronously, and never
// blocks the loop's progress.
func (r *Runner) dispatchOn(ctx context.Context) {
	r.mu.Lock()
	already := r.turnedOn
	r.turnedOn = true
	r.mu.Unlock()
	if already {
		return
	}
	go func() {
		if err := r.onAction(ctx); err != nil {
			r.log.Error("on-action failed", "error", err)
		}
	}()
}

// dispatchOff invokes the off-action if currently turned on.
func (r *Runner) dispatchOff(ctx context.Context) {
	r.mu.Lock()
	was := r.turnedOn
	r.turnedOn = false
	r.mu.Unlock()
	if !was {
		return
	}
	go func() {
		if err := r.offAction(ctx); err != nil {
			r.log.Error("off-action failed", "error", err)
		}
	}()
}

// awaitChange blocks until a change is signalled or stop is requested,
// reporting whether the caller should stop.
func (r *Runner) awaitChange(ctx context.Context) (bool, error) {
	for {
		if r.shouldStop() {
			return true, r.stopAndReturn(ctx)
		}
		if r.consumeChangeSignalled() {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case <-r.wake:
		}
	}
}

type waitResult int

const (
	// waitCompleted means now reached or passed target on its own.
	waitCompleted waitResult = iota
	// waitMissed means missPredicate fired first: the clock jumped past
	// target without now ever naturally reaching it.
	waitMissed
	// waitInterrupted means a stop or schedule change cut the wait short
	// before target was reached.
	waitInterrupted
)

// waitUntil polls at most every minPoll until now reaches or passes
// target, a change is signalled, or the clock jumps past target without
// ever reaching it. firstSeen anchors both checks to a forward-travel
// distance from the moment the wait began, since DayTime.Before/After
// order daytimes linearly on the clock face and cannot tell "target is
// later today" from "target is numerically smaller because it's on the
// other side of midnight" — target is routinely smaller than now here,
// e.g. waiting from 20:00 for an 08:00 start, or from 23:55 for a
// 00:15 end of a midnight-spanning interval.
func (r *Runner) waitUntil(ctx context.Context, firstSeen, target daytime.DayTime) (waitResult, error) {
	ticker := time.NewTicker(r.minPoll)
	defer ticker.Stop()

	missed := missPredicate(firstSeen, target)

	for {
		if r.shouldStop() {
			return waitInterrupted, nil
		}
		if r.consumeChangeSignalled() {
			return waitInterrupted, nil
		}

		now, err := r.clock()
		if err != nil {
			return waitCompleted, fmt.Errorf("runner: reading clock: %w", err)
		}
		if firstSeen.DistanceForward(now) >= firstSeen.DistanceForward(target) {
			return waitCompleted, nil
		}
		if missed(now) {
			return waitMissed, nil
		}

		select {
		case <-ctx.Done():
			return waitInterrupted, ctx.Err()
		case <-r.wake:
		case <-ticker.C:
		}
	}
}

// missPredicate builds miss_predicate_X from spec.md §4.6: false at
// firstSeen itself, otherwise true once travelling forward from now to
// firstSeen is shorter than travelling forward from now to target —
// meaning the clock has gone past target the long way around.
func missPredicate(firstSeen, target daytime.DayTime) func(daytime.DayTime) bool {
	return func(now daytime.DayTime) bool {
		if now.Equal(firstSeen) {
			return false
		}
		return now.DistanceForward(firstSeen) < now.DistanceForward(target)
	}
}
