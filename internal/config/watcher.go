package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"argusglue/pkg/logging"
)

// Watcher watches the config file and invokes a callback when it changes.
//
// The callback is what running poll loops hook their Poke into, so an edited
// config (or a touched file) triggers an immediate reconciliation instead of
// waiting out the current sleep. Events are debounced because editors
// produce bursts of writes and renames for a single save.
type Watcher struct {
	mu sync.Mutex

	// path is the config file being watched.
	path string

	// watcher is the fsnotify watcher instance. It watches the directory,
	// not the file: editors replace files on save, which would kill a
	// file-level watch.
	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional events.
	debounceInterval time.Duration

	// onChange is invoked once per debounced burst.
	onChange func()

	// pending is the running debounce timer, if any.
	pending *time.Timer

	running bool
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, debounceInterval time.Duration, onChange func()) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &Watcher{
		path:             path,
		debounceInterval: debounceInterval,
		onChange:         onChange,
	}
}

// Start begins watching. Returns immediately; events are processed on a
// background goroutine until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.running = true

	go w.processEvents(ctx)

	logging.Info("ConfigWatcher", "Watching %s for changes", w.path)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("ConfigWatcher", "Watch error: %v", err)
		}
	}
}

// scheduleChange (re)starts the debounce timer for a change burst.
func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounceInterval, func() {
		logging.Debug("ConfigWatcher", "Config file %s changed", w.path)
		w.onChange()
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}
