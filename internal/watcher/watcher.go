// Package watcher observes the download directory and triggers an
// index reconcile when media files disappear outside the app, for
// example when the OS reclaims cache storage. This keeps the offline
// indexes eagerly consistent instead of relying only on lazy pruning
// during reads.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches a burst of removals into one reconcile.
const debounceWindow = 500 * time.Millisecond

// Reconciler is invoked after files vanish from the watched directory.
type Reconciler interface {
	Reconcile()
}

// Watcher monitors one directory for file removals.
type Watcher struct {
	fsw        *fsnotify.Watcher
	dir        string
	reconciler Reconciler
	logger     *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher over dir. Call Run to start it.
func New(dir string, reconciler Reconciler, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		fsw:        fsw,
		dir:        filepath.Clean(dir),
		reconciler: reconciler,
		logger:     logger,
	}, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching download directory", "dir", w.dir)

	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handle schedules a reconcile for removal-like events on media files.
func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	if isTempFile(event.Name) {
		return
	}

	w.logger.Debug("download file removed", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, w.reconciler.Reconcile)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// isTempFile reports whether path is an in-flight transfer artifact.
func isTempFile(path string) bool {
	return strings.HasSuffix(path, ".part")
}
