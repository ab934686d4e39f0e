// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package timerstore

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher watches a FileStore's backing directory for changes made
// out of band (another process editing the timer files directly) and
// invokes onChange whenever any entry in that directory is created,
// written, renamed or removed; this includes the store's own .lock and
// .tmp files, not only timer files. It does not itself re-read the store; callers typically
// pass a closure that re-publishes the listenable collection's
// merged-intervals snapshot.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchDir starts watching dir, calling onChange (on an internal
// goroutine) for every relevant filesystem event and logging watcher
// errors to log (if non-nil) at warn level. Call Close to stop watching.
func WatchDir(dir string, log *slog.Logger, onChange func()) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	dw := &DirWatcher{watcher: w, done: make(chan struct{})}
	go dw.loop(log, onChange)
	return dw, nil
}

func (w *DirWatcher) loop(log *slog.Logger, onChange func()) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if log != nil {
				log.Warn("timer store watcher error", "error", err)
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *DirWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
