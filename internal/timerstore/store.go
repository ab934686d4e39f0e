// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package timerstore implements the identifiable timer collection (spec
// component C4) and the listenable wrapper around it (spec component
// C5): an in-memory variant, a durable file-backed variant, and a
// synchronous event-notifying decorator that either can sit behind.
//
// Grounded on original_source/garden_water/timers/collections/abc.py
// and original_source/backend/garden_water/timers/collections/
// memory.py and database.py.
package timerstore

import (
	"errors"

	"github.com/gardenwatch/timerflow/internal/timer"
)

// ErrNotFound is returned by Get when no timer is stored under the
// requested id.
var ErrNotFound = errors.New("timerstore: timer not found")

// ErrConflict is returned by AddWithID when the requested id is
// already present in the collection.
var ErrConflict = errors.New("timerstore: timer id already exists")

// Store is an identifiable timer collection: a multiset-free mapping
// from id to IdentifiableTimer. Implementations need not be safe for
// concurrent use; the runtime's single-threaded cooperative model
// guarantees mutations never overlap.
type Store interface {
	// Len returns the number of stored timers.
	Len() int

	// Iter returns a snapshot of all stored timers in unspecified order.
	Iter() []timer.IdentifiableTimer

	// Contains reports whether a record with the same id as t is stored
	// and equal to t by value.
	Contains(t timer.IdentifiableTimer) bool

	// Get returns the timer stored under id, or ErrNotFound.
	Get(id int) (timer.IdentifiableTimer, error)

	// Add stores t under a fresh id allocated by an
	// implementation-defined deterministic rule. Use AddWithID to store
	// under a caller-chosen id.
	Add(t timer.Timer) (timer.IdentifiableTimer, error)

	// AddWithID stores t under the explicit id, failing with
	// ErrConflict if id is already in use.
	AddWithID(t timer.Timer, id int) (timer.IdentifiableTimer, error)

	// Remove deletes the timer stored under id, reporting whether
	// anything was removed.
	Remove(id int) (bool, error)
}
