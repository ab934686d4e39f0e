// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/gardenwatch/timerflow/internal/backoff"
	"github.com/gardenwatch/timerflow/internal/timer"
)

const fileExtension = ".json"

// FileStore is a durable, file-per-record Store: each timer is
// serialized to "<dir>/<id>.json". Mutating operations serialize on a
// single sidecar lockfile via gofrs/flock so that a FileStore is safe to
// share across processes (e.g. the server and a one-shot CLI editing
// the same directory), not just goroutines.
//
// Grounded on original_source/backend/garden_water/timers/collections/
// database.py's TimersDatabase: file-per-id JSON, max(existing)+1 id
// allocation.
type FileStore struct {
	mu         sync.Mutex
	dir        string
	lock       *flock.Flock
	lockRetry  backoff.Retrier
	lockCtxTTL time.Duration
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates (if necessary) dir and returns a FileStore
// persisting timers under it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("timerstore: creating store directory: %w", err)
	}
	policy := backoff.WithJitter(backoff.NewConstantBackoffPolicy(20*time.Millisecond), backoff.FullJitter)
	return &FileStore{
		dir:        dir,
		lock:       flock.New(filepath.Join(dir, ".lock")),
		lockRetry:  backoff.NewRetrier(policy),
		lockCtxTTL: 2 * time.Second,
	}, nil
}

// withLock serializes fn against other processes/goroutines holding the
// same sidecar lockfile, retrying acquisition with jittered backoff.
func (s *FileStore) withLock(fn func() error) error {
	// The flock handle is shared by all goroutines of this FileStore and
	// reports success to any of them while held, so goroutines are
	// serialized here first.
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.lockCtxTTL)
	defer cancel()

	s.lockRetry.Reset()
	for {
		locked, err := s.lock.TryLock()
		if err != nil {
			return fmt.Errorf("timerstore: acquiring store lock: %w", err)
		}
		if locked {
			break
		}
		if err := s.lockRetry.Next(ctx, nil); err != nil {
			return fmt.Errorf("timerstore: timed out acquiring store lock: %w", err)
		}
	}
	defer s.lock.Unlock()

	return fn()
}

func (s *FileStore) path(id int) string {
	return filepath.Join(s.dir, strconv.Itoa(id)+fileExtension)
}

func (s *FileStore) idFromFilename(name string) (int, bool) {
	if !strings.HasSuffix(name, fileExtension) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(name, fileExtension))
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *FileStore) ids() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("timerstore: listing store directory: %w", err)
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := s.idFromFilename(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *FileStore) Len() int {
	ids, err := s.ids()
	if err != nil {
		return 0
	}
	return len(ids)
}

func (s *FileStore) Iter() []timer.IdentifiableTimer {
	ids, err := s.ids()
	if err != nil {
		return nil
	}
	out := make([]timer.IdentifiableTimer, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(id)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *FileStore) Contains(t timer.IdentifiableTimer) bool {
	stored, err := s.Get(t.ID())
	if err != nil {
		return false
	}
	return stored.Equal(t)
}

func (s *FileStore) Get(id int) (timer.IdentifiableTimer, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return timer.IdentifiableTimer{}, ErrNotFound
		}
		return timer.IdentifiableTimer{}, fmt.Errorf("timerstore: reading timer %d: %w", id, err)
	}
	return unmarshalRecord(data)
}

func (s *FileStore) Add(t timer.Timer) (timer.IdentifiableTimer, error) {
	var out timer.IdentifiableTimer
	err := s.withLock(func() error {
		ids, err := s.ids()
		if err != nil {
			return err
		}
		id := 0
		if len(ids) > 0 {
			id = ids[len(ids)-1] + 1
		}
		idt := timer.FromTimer(t, id)
		if err := s.writeRecord(idt); err != nil {
			return err
		}
		out = idt
		return nil
	})
	return out, err
}

func (s *FileStore) AddWithID(t timer.Timer, id int) (timer.IdentifiableTimer, error) {
	var out timer.IdentifiableTimer
	err := s.withLock(func() error {
		if _, statErr := os.Stat(s.path(id)); statErr == nil {
			return ErrConflict
		}
		idt := timer.FromTimer(t, id)
		if err := s.writeRecord(idt); err != nil {
			return err
		}
		out = idt
		return nil
	})
	return out, err
}

func (s *FileStore) writeRecord(idt timer.IdentifiableTimer) error {
	data, err := marshalRecord(idt)
	if err != nil {
		return fmt.Errorf("timerstore: serialising timer %d: %w", idt.ID(), err)
	}
	tmp := s.path(idt.ID()) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("timerstore: writing timer %d: %w", idt.ID(), err)
	}
	if err := os.Rename(tmp, s.path(idt.ID())); err != nil {
		return fmt.Errorf("timerstore: committing timer %d: %w", idt.ID(), err)
	}
	return nil
}

func (s *FileStore) Remove(id int) (bool, error) {
	var removed bool
	err := s.withLock(func() error {
		err := os.Remove(s.path(id))
		if err != nil {
			if os.IsNotExist(err) {
				removed = false
				return nil
			}
			return fmt.Errorf("timerstore: removing timer %d: %w", id, err)
		}
		removed = true
		return nil
	})
	return removed, err
}
