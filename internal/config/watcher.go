// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// Watcher reloads the global configuration when the config file changes on
// disk, so edits take effect without restarting the client.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Config)
	done     chan struct{}
}

// NewWatcher creates a watcher for the config file. onReload (optional) is
// invoked with the fresh config after every successful reload.
func NewWatcher(onReload func(*Config)) (*Watcher, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     path,
		debounce: 250 * time.Millisecond,
		onReload: onReload,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts watching. Editors typically replace the file via rename, so
// the parent directory is watched and events are filtered by name.
func (w *Watcher) Watch() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// processEvents coalesces bursts of writes into one reload per debounce
// window.
func (w *Watcher) processEvents() {
	var timer *time.Timer
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}

// reload re-reads the file into the global instance.
func (w *Watcher) reload() {
	if err := ReloadGlobal(); err != nil {
		log.Printf("config: reload failed: %v", err)
		return
	}
	log.Printf("config: reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(Global())
	}
}
