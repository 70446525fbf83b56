package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/config"
	"github.com/dharmaapp/dharma-core/internal/download"
	"github.com/dharmaapp/dharma-core/internal/watcher"
)

// WatcherHandle wraps the download-dir watcher with its run loop.
type WatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatcherHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideDownloadWatcher provides the running download-dir watcher.
func ProvideDownloadWatcher(i do.Injector) (*WatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	manager := do.MustInvoke[*download.Manager](i)
	log := do.MustInvoke[*slog.Logger](i)

	w, err := watcher.New(cfg.Storage.DownloadDir, manager, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Warn("download watcher stopped", "error", err)
		}
	}()

	return &WatcherHandle{Watcher: w, cancel: cancel}, nil
}
