// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import "github.com/gardenwatch/timerflow/internal/timer"

// AddedListener is invoked with the stored record after a successful Add.
type AddedListener func(timer.IdentifiableTimer)

// RemovedListener is invoked with the id after a successful Remove.
type RemovedListener func(id int)

// Listenable wraps a Store, firing registered listeners synchronously,
// in registration order, after the wrapped mutation has already
// succeeded. Listener registration is never retroactive: a listener
// only observes mutations made after it was added. Not safe for
// concurrent use — callers rely on the single-threaded cooperative
// model described for the timer runner.
//
// Grounded on original_source/backend/timeventx/timers/collections/
// listenable.py.
type Listenable struct {
	Store
	addedListeners   []AddedListener
	removedListeners []RemovedListener
}

// NewListenable wraps store with event notification.
func NewListenable(store Store) *Listenable {
	return &Listenable{Store: store}
}

// OnAdded registers a listener fired after every successful Add.
func (l *Listenable) OnAdded(fn AddedListener) {
	l.addedListeners = append(l.addedListeners, fn)
}

// OnRemoved registers a listener fired after every successful Remove.
func (l *Listenable) OnRemoved(fn RemovedListener) {
	l.removedListeners = append(l.removedListeners, fn)
}

// Add delegates to the wrapped store, firing TimerAdded listeners on
// success. A listener panic propagates to the caller; listeners
// registered before the panicking one have already fired and are not
// re-run.
func (l *Listenable) Add(t timer.Timer) (timer.IdentifiableTimer, error) {
	added, err := l.Store.Add(t)
	if err != nil {
		return timer.IdentifiableTimer{}, err
	}
	for _, fn := range l.addedListeners {
		fn(added)
	}
	return added, nil
}

// AddWithID delegates to the wrapped store, firing TimerAdded listeners
// on success.
func (l *Listenable) AddWithID(t timer.Timer, id int) (timer.IdentifiableTimer, error) {
	added, err := l.Store.AddWithID(t, id)
	if err != nil {
		return timer.IdentifiableTimer{}, err
	}
	for _, fn := range l.addedListeners {
		fn(added)
	}
	return added, nil
}

// Remove delegates to the wrapped store, firing TimerRemoved listeners
// only when the underlying remove actually removed something.
func (l *Listenable) Remove(id int) (bool, error) {
	removed, err := l.Store.Remove(id)
	if err != nil {
		return false, err
	}
	if removed {
		for _, fn := range l.removedListeners {
			fn(id)
		}
	}
	return removed, nil
}
