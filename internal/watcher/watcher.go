// Package watcher watches spec and data files for changes, debouncing
// rapid editor writes into a single re-render.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chartel-dev/chartel/internal/logging"
)

// ChangeHandler receives the set of paths that changed within one
// debounce window.
type ChangeHandler func(paths []string)

// Watcher wraps fsnotify with debouncing and a path allowlist.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	handler  ChangeHandler
	logger   logging.Logger

	mu      sync.Mutex
	watched map[string]bool
	pending map[string]bool
	timer   *time.Timer
}

// New creates a watcher invoking handler after debounce of quiet time.
func New(debounce time.Duration, handler ChangeHandler, logger logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		handler:  handler,
		logger:   logger.WithComponent("watcher"),
		watched:  make(map[string]bool),
		pending:  make(map[string]bool),
	}, nil
}

// Add registers a file to watch. The parent directory is watched so that
// editors which replace files on save (rename + create) are still seen.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.watched[abs] = true
	w.mu.Unlock()
	return w.fs.Add(filepath.Dir(abs))
}

// Run pumps events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			if w.watched[abs] {
				w.pending[abs] = true
				w.resetTimerLocked()
			}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "watch error")
		}
	}
}

func (w *Watcher) resetTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(paths) > 0 {
		w.handler(paths)
	}
}

// Close stops the underlying fsnotify watcher and any pending debounce.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
