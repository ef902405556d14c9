// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the Store cache when backing files change.
//
// # Description
//
// Long-running deployments (the HTTP server) edit or re-provision the
// data files out of band. The watcher monitors the data directory and
// drops the relevant cache entry so the next tool call re-reads the
// file. One-shot CLI runs don't need a watcher.
//
// # Thread Safety
//
// Safe for concurrent use. Start should only be called once.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store's data directory.
//
// # Inputs
//
//   - store: The store whose cache to invalidate.
//
// # Outputs
//
//   - *Watcher: Ready-to-start watcher.
//   - error: Non-nil if watcher creation fails.
func NewWatcher(store *Store) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		store:   store,
		watcher: watcher,
	}, nil
}

// Start begins watching for data file changes.
//
// # Description
//
// Watches the data directory and invalidates cached files on write,
// create, rename, or remove events. Blocks until the context is
// cancelled. Should be run in a goroutine.
//
// # Example
//
//	w, _ := tools.NewWatcher(store)
//	go w.Start(ctx)
func (w *Watcher) Start(ctx context.Context) {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.store.Dir()); err != nil {
		slog.Warn("Failed to watch data directory",
			"dir", w.store.Dir(),
			"error", err)
		return
	}

	slog.Info("Watching data directory", "dir", w.store.Dir())

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				name := filepath.Base(event.Name)
				slog.Debug("Data file changed, invalidating cache",
					"file", name,
					"op", event.Op.String())
				w.store.Invalidate(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Data directory watch error", "error", err)
		}
	}
}
