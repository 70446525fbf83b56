package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	calls atomic.Int32
}

func (r *countingReconciler) Reconcile() {
	r.calls.Add(1)
}

func startWatcher(t *testing.T, dir string, r Reconciler) {
	t.Helper()

	w, err := New(dir, r, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give fsnotify a moment to register the watch.
	time.Sleep(50 * time.Millisecond)
}

func TestWatcher_RemovalTriggersReconcile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a1.mp3")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	r := &countingReconciler{}
	startWatcher(t, dir, r)

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		return r.calls.Load() == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcher_BurstOfRemovalsReconcilesOnce(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a1.mp3", "a2.mp3", "a3.mp3"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))
		paths = append(paths, path)
	}

	r := &countingReconciler{}
	startWatcher(t, dir, r)

	for _, path := range paths {
		require.NoError(t, os.Remove(path))
	}

	assert.Eventually(t, func() bool {
		return r.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	// The debounce window collapses the burst.
	time.Sleep(2 * debounceWindow)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestWatcher_CreateDoesNotReconcile(t *testing.T) {
	dir := t.TempDir()
	r := &countingReconciler{}
	startWatcher(t, dir, r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.mp3"), []byte("bytes"), 0o644))

	time.Sleep(2 * debounceWindow)
	assert.Zero(t, r.calls.Load())
}

func TestWatcher_TempFileRemovalIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a1.mp3.x8f2.part")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	r := &countingReconciler{}
	startWatcher(t, dir, r)

	require.NoError(t, os.Remove(path))

	time.Sleep(2 * debounceWindow)
	assert.Zero(t, r.calls.Load())
}
