package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/catalog"
	"github.com/dharmaapp/dharma-core/internal/cms"
	"github.com/dharmaapp/dharma-core/internal/config"
	"github.com/dharmaapp/dharma-core/internal/download"
)

// ProvideFileStore provides the disk-backed file store.
func ProvideFileStore(i do.Injector) (*download.DiskStore, error) {
	return download.NewDiskStore(), nil
}

// ProvideMediaFetcher provides the streaming media fetcher.
func ProvideMediaFetcher(i do.Injector) (*download.MediaFetcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	return download.NewMediaFetcher(cfg.Download.Timeout, log), nil
}

// ProvideTrackIndex provides the offline track index.
func ProvideTrackIndex(i do.Injector) (*download.TrackIndex, error) {
	c := do.MustInvoke[*cache.Cache](i)
	files := do.MustInvoke[*download.DiskStore](i)
	log := do.MustInvoke[*slog.Logger](i)

	return download.NewTrackIndex(c, files, log), nil
}

// ProvidePathIndex provides the fast id-to-path index.
func ProvidePathIndex(i do.Injector) (*download.PathIndex, error) {
	c := do.MustInvoke[*cache.Cache](i)
	files := do.MustInvoke[*download.DiskStore](i)

	return download.NewPathIndex(c, files), nil
}

// ProvideDownloadManager provides the audio download manager.
func ProvideDownloadManager(i do.Injector) (*download.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	files := do.MustInvoke[*download.DiskStore](i)
	fetcher := do.MustInvoke[*download.MediaFetcher](i)
	tracks := do.MustInvoke[*download.TrackIndex](i)
	paths := do.MustInvoke[*download.PathIndex](i)
	audio := do.MustInvoke[*catalog.AudioService](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return download.NewManager(files, fetcher, tracks, paths, audio, client, cfg.Storage.DownloadDir, log), nil
}

// ProvideBookDownloader provides the PDF book downloader.
func ProvideBookDownloader(i do.Injector) (*download.BookDownloader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	files := do.MustInvoke[*download.DiskStore](i)
	fetcher := do.MustInvoke[*download.MediaFetcher](i)
	books := do.MustInvoke[*catalog.BookService](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return download.NewBookDownloader(files, fetcher, books, client, cfg.Storage.DownloadDir, log), nil
}
