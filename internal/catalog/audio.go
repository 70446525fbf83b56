// Package catalog provides the per-domain cache proxies that sit
// between the UI and the CMS.
//
// Every proxy exposes two read modes: cached-first (serve the cache,
// fetch only on a miss) and fresh-first (fetch, merge previously
// recorded local-only state into the result, fall back to cache when
// the network is down). Local-only fields such as download flags, file
// paths and reading progress must survive a server refresh.
package catalog

import (
	"context"
	"log/slog"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/domain"
)

// rootCategoryKey caches the top-level audio listing, which the CMS
// models as entries with a null parent category.
const rootCategoryKey = "root"

// AudioFetcher is the remote API surface the audio proxy depends on.
type AudioFetcher interface {
	FetchAudioCategory(ctx context.Context, categoryID string) ([]domain.AudioCollection, error)
	FetchAudioDetail(ctx context.Context, id string) (*domain.AudioCollectionDetail, error)
}

// AudioService is the cache proxy for sermon collections.
type AudioService struct {
	cache   *cache.Cache
	fetcher AudioFetcher
	logger  *slog.Logger
}

// NewAudioService creates a new audio catalog proxy.
func NewAudioService(c *cache.Cache, fetcher AudioFetcher, logger *slog.Logger) *AudioService {
	return &AudioService{cache: c, fetcher: fetcher, logger: logger}
}

// categoryKey maps a category id to its cache key.
func categoryKey(categoryID string) string {
	if categoryID == "" {
		return rootCategoryKey
	}
	return categoryID
}

// GetCategory returns the collections under a category, serving the
// cache when possible. An empty categoryID lists the root.
func (s *AudioService) GetCategory(ctx context.Context, categoryID string) ([]domain.AudioCollection, error) {
	key := categoryKey(categoryID)

	if cached, ok, _ := cache.Get[[]domain.AudioCollection](s.cache, key); ok {
		s.logger.Debug("audio category served from cache", "key", key)
		return cached, nil
	}

	collections, err := s.fetcher.FetchAudioCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(s.cache, key, collections)
	return collections, nil
}

// GetCategoryFresh fetches the collections from the network first,
// falling back to the cache when the fetch fails.
func (s *AudioService) GetCategoryFresh(ctx context.Context, categoryID string) ([]domain.AudioCollection, error) {
	key := categoryKey(categoryID)

	collections, err := s.fetcher.FetchAudioCategory(ctx, categoryID)
	if err != nil {
		if cached, ok, _ := cache.Get[[]domain.AudioCollection](s.cache, key); ok {
			s.logger.Info("network fetch failed, serving cached audio category", "key", key)
			return cached, nil
		}
		return nil, err
	}

	_ = cache.Set(s.cache, key, collections)
	return collections, nil
}

// GetDetail returns one collection with its tracks, cache first.
func (s *AudioService) GetDetail(ctx context.Context, id string) (*domain.AudioCollectionDetail, error) {
	if cached, ok, _ := cache.Get[domain.AudioCollectionDetail](s.cache, id); ok {
		return &cached, nil
	}

	detail, err := s.fetcher.FetchAudioDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(s.cache, id, *detail)
	return detail, nil
}

// GetDetailFresh fetches one collection from the network and merges the
// cached download state into the result: a track that was downloaded
// keeps its flag and local path across the refresh. The fresh track
// list defines membership; tracks that vanished from the server are
// dropped along with their local state.
func (s *AudioService) GetDetailFresh(ctx context.Context, id string) (*domain.AudioCollectionDetail, error) {
	cached, hasCache, _ := cache.Get[domain.AudioCollectionDetail](s.cache, id)

	detail, err := s.fetcher.FetchAudioDetail(ctx, id)
	if err != nil {
		if hasCache {
			s.logger.Info("network fetch failed, serving cached collection", "id", id)
			return &cached, nil
		}
		return nil, err
	}

	if hasCache {
		detail.Audios = mergeAudioItems(detail.Audios, cached.Audios)
	}
	_ = cache.Set(s.cache, id, *detail)
	return detail, nil
}

// mergeAudioItems copies local-only fields from the old track list onto
// the fresh one, matching tracks by asset id.
func mergeAudioItems(fresh, old []domain.AudioItem) []domain.AudioItem {
	byAsset := make(map[string]domain.AudioItem, len(old))
	for _, item := range old {
		if id := item.AssetID(); id != "" {
			byAsset[id] = item
		}
	}

	merged := make([]domain.AudioItem, len(fresh))
	for i, item := range fresh {
		if prev, ok := byAsset[item.AssetID()]; ok && prev.IsDownloadable {
			item.IsDownloadable = true
			item.Path = prev.Path
		}
		merged[i] = item
	}
	return merged
}

// UpdateDownloadStatus patches one track's download state in the cached
// collection detail. Returns false when the collection was never cached.
func (s *AudioService) UpdateDownloadStatus(collectionID, assetID string, downloaded bool, path string) bool {
	if assetID == "" {
		return false
	}

	detail, ok, _ := cache.Get[domain.AudioCollectionDetail](s.cache, collectionID)
	if !ok || len(detail.Audios) == 0 {
		return false
	}

	patched := false
	for i, item := range detail.Audios {
		if item.AssetID() == assetID {
			detail.Audios[i].IsDownloadable = downloaded
			if downloaded {
				detail.Audios[i].Path = path
			} else {
				detail.Audios[i].Path = ""
			}
			patched = true
		}
	}
	if !patched {
		return false
	}

	_ = cache.Set(s.cache, collectionID, detail)
	return true
}

// ClearCache removes every cached entry.
func (s *AudioService) ClearCache() error {
	return s.cache.Clear()
}
