package catalog

import (
	"context"
	"log/slog"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/domain"
)

// centersKey holds the meditation center directory.
const centersKey = "all_centers"

// CenterFetcher is the remote API surface the center proxy depends on.
type CenterFetcher interface {
	FetchCenters(ctx context.Context) ([]domain.Center, error)
}

// CenterService is the cache proxy for the center directory.
// Centers carry no local-only state, so refreshes replace the cached
// list wholesale.
type CenterService struct {
	cache   *cache.Cache
	fetcher CenterFetcher
	logger  *slog.Logger
}

// NewCenterService creates a new center directory proxy.
func NewCenterService(c *cache.Cache, fetcher CenterFetcher, logger *slog.Logger) *CenterService {
	return &CenterService{cache: c, fetcher: fetcher, logger: logger}
}

// GetCenters returns the center directory, serving the cache when possible.
func (s *CenterService) GetCenters(ctx context.Context) ([]domain.Center, error) {
	if cached, ok, _ := cache.Get[[]domain.Center](s.cache, centersKey); ok {
		return cached, nil
	}

	centers, err := s.fetcher.FetchCenters(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(s.cache, centersKey, centers)
	return centers, nil
}

// GetCentersFresh fetches the directory from the network first, falling
// back to the cache when the fetch fails.
func (s *CenterService) GetCentersFresh(ctx context.Context) ([]domain.Center, error) {
	centers, err := s.fetcher.FetchCenters(ctx)
	if err != nil {
		if cached, ok, _ := cache.Get[[]domain.Center](s.cache, centersKey); ok {
			s.logger.Info("network fetch failed, serving cached centers")
			return cached, nil
		}
		return nil, err
	}

	_ = cache.Set(s.cache, centersKey, centers)
	return centers, nil
}

// ClearCache removes the cached directory.
func (s *CenterService) ClearCache() bool {
	return s.cache.Remove(centersKey)
}
