// Package di provides dependency injection configuration for the
// dharma sync core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/catalog"
	"github.com/dharmaapp/dharma-core/internal/cms"
	"github.com/dharmaapp/dharma-core/internal/config"
	"github.com/dharmaapp/dharma-core/internal/di/providers"
	"github.com/dharmaapp/dharma-core/internal/download"
	"github.com/dharmaapp/dharma-core/internal/logger"
	"github.com/dharmaapp/dharma-core/internal/playback"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)

	// Remote content
	do.Provide(injector, providers.ProvideCMSClient)
	do.Provide(injector, providers.ProvideNetworkMonitor)

	// Catalog proxies
	do.Provide(injector, providers.ProvideAudioService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCenterService)
	do.Provide(injector, providers.ProvideVideoService)

	// Downloads and offline indexes
	do.Provide(injector, providers.ProvideFileStore)
	do.Provide(injector, providers.ProvideMediaFetcher)
	do.Provide(injector, providers.ProvideTrackIndex)
	do.Provide(injector, providers.ProvidePathIndex)
	do.Provide(injector, providers.ProvideDownloadManager)
	do.Provide(injector, providers.ProvideBookDownloader)

	// Playback
	do.Provide(injector, providers.ProvidePlaybackResolver)

	// Workers
	do.Provide(injector, providers.ProvideDownloadWatcher)

	return injector
}

// Bootstrap initializes all services and runs the startup reconcile.
// This triggers lazy initialization of every core service.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*cache.Cache](injector)
	_ = do.MustInvoke[*cms.Client](injector)
	_ = do.MustInvoke[*providers.MonitorHandle](injector)

	// Catalog proxies
	_ = do.MustInvoke[*catalog.AudioService](injector)
	_ = do.MustInvoke[*catalog.BookService](injector)
	_ = do.MustInvoke[*catalog.CenterService](injector)
	_ = do.MustInvoke[*catalog.VideoService](injector)

	// Downloads
	_ = do.MustInvoke[*download.BookDownloader](injector)
	manager := do.MustInvoke[*download.Manager](injector)

	// Playback and workers
	_ = do.MustInvoke[*playback.Resolver](injector)
	_ = do.MustInvoke[*providers.WatcherHandle](injector)

	// Bring the offline indexes in line with what is on disk before
	// anything reads them.
	manager.Reconcile()

	return nil
}
