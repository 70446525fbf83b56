package catalog

import (
	"context"
	"log/slog"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/domain"
)

// videoCategoriesKey holds the video category listing.
// Category details cache under their own ids.
const videoCategoriesKey = "video_categories"

// VideoFetcher is the remote API surface the video proxy depends on.
type VideoFetcher interface {
	FetchVideoCategories(ctx context.Context) ([]domain.VideoCollection, error)
	FetchVideoDetail(ctx context.Context, id string) (*domain.VideoCollectionDetail, error)
}

// VideoService is the cache proxy for video categories.
// Videos stream only, so entries carry no local-only state to merge.
type VideoService struct {
	cache   *cache.Cache
	fetcher VideoFetcher
	logger  *slog.Logger
}

// NewVideoService creates a new video catalog proxy.
func NewVideoService(c *cache.Cache, fetcher VideoFetcher, logger *slog.Logger) *VideoService {
	return &VideoService{cache: c, fetcher: fetcher, logger: logger}
}

// GetCategories returns the video categories, serving the cache when possible.
func (s *VideoService) GetCategories(ctx context.Context) ([]domain.VideoCollection, error) {
	if cached, ok, _ := cache.Get[[]domain.VideoCollection](s.cache, videoCategoriesKey); ok {
		return cached, nil
	}

	categories, err := s.fetcher.FetchVideoCategories(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(s.cache, videoCategoriesKey, categories)
	return categories, nil
}

// GetCategoriesFresh fetches the categories from the network first,
// falling back to the cache when the fetch fails.
func (s *VideoService) GetCategoriesFresh(ctx context.Context) ([]domain.VideoCollection, error) {
	categories, err := s.fetcher.FetchVideoCategories(ctx)
	if err != nil {
		if cached, ok, _ := cache.Get[[]domain.VideoCollection](s.cache, videoCategoriesKey); ok {
			s.logger.Info("network fetch failed, serving cached video categories")
			return cached, nil
		}
		return nil, err
	}

	_ = cache.Set(s.cache, videoCategoriesKey, categories)
	return categories, nil
}

// GetDetail returns one video category with its videos, cache first.
func (s *VideoService) GetDetail(ctx context.Context, id string) (*domain.VideoCollectionDetail, error) {
	if cached, ok, _ := cache.Get[domain.VideoCollectionDetail](s.cache, id); ok {
		return &cached, nil
	}

	detail, err := s.fetcher.FetchVideoDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(s.cache, id, *detail)
	return detail, nil
}

// GetDetailFresh fetches one category from the network first, falling
// back to the cache when the fetch fails.
func (s *VideoService) GetDetailFresh(ctx context.Context, id string) (*domain.VideoCollectionDetail, error) {
	detail, err := s.fetcher.FetchVideoDetail(ctx, id)
	if err != nil {
		if cached, ok, _ := cache.Get[domain.VideoCollectionDetail](s.cache, id); ok {
			s.logger.Info("network fetch failed, serving cached video detail", "id", id)
			return &cached, nil
		}
		return nil, err
	}

	_ = cache.Set(s.cache, id, *detail)
	return detail, nil
}

// ClearCache removes the cached category listing.
func (s *VideoService) ClearCache() error {
	return s.cache.ClearPrefix(videoCategoriesKey)
}
