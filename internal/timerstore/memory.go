// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"sort"

	"github.com/gardenwatch/timerflow/internal/timer"
)

// MemoryStore is a non-durable Store backed by a map. It allocates ids
// by picking the smallest non-negative integer not currently in use,
// mirroring the in-memory reference collection's strategy.
type MemoryStore struct {
	timers map[int]timer.IdentifiableTimer
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{timers: make(map[int]timer.IdentifiableTimer)}
}

func (s *MemoryStore) Len() int { return len(s.timers) }

func (s *MemoryStore) Iter() []timer.IdentifiableTimer {
	out := make([]timer.IdentifiableTimer, 0, len(s.timers))
	for _, t := range s.timers {
		out = append(out, t)
	}
	return out
}

func (s *MemoryStore) Contains(t timer.IdentifiableTimer) bool {
	stored, ok := s.timers[t.ID()]
	return ok && stored.Equal(t)
}

func (s *MemoryStore) Get(id int) (timer.IdentifiableTimer, error) {
	t, ok := s.timers[id]
	if !ok {
		return timer.IdentifiableTimer{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Add(t timer.Timer) (timer.IdentifiableTimer, error) {
	id := s.smallestFreeID()
	return s.AddWithID(t, id)
}

func (s *MemoryStore) AddWithID(t timer.Timer, id int) (timer.IdentifiableTimer, error) {
	if _, exists := s.timers[id]; exists {
		return timer.IdentifiableTimer{}, ErrConflict
	}
	idt := timer.FromTimer(t, id)
	s.timers[id] = idt
	return idt, nil
}

func (s *MemoryStore) Remove(id int) (bool, error) {
	if _, ok := s.timers[id]; !ok {
		return false, nil
	}
	delete(s.timers, id)
	return true, nil
}

// smallestFreeID returns the smallest non-negative integer not present
// as a key.
func (s *MemoryStore) smallestFreeID() int {
	used := make([]int, 0, len(s.timers))
	for id := range s.timers {
		used = append(used, id)
	}
	sort.Ints(used)
	for i, id := range used {
		if id != i {
			return i
		}
	}
	return len(used)
}
