package catalog

import (
	"context"
	"log/slog"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// booksKey holds the full book list as a raw array, no envelope.
// The list is patched in place by download and reading-progress
// updates, so freshness metadata would be misleading.
const booksKey = "all_books"

// BookFetcher is the remote API surface the book proxy depends on.
type BookFetcher interface {
	FetchBooks(ctx context.Context) ([]domain.Book, error)
}

// BookService is the cache proxy for the e-book catalog.
type BookService struct {
	cache   *cache.Cache
	fetcher BookFetcher
	logger  *slog.Logger
}

// NewBookService creates a new book catalog proxy.
func NewBookService(c *cache.Cache, fetcher BookFetcher, logger *slog.Logger) *BookService {
	return &BookService{cache: c, fetcher: fetcher, logger: logger}
}

// GetBooks returns the book list, serving the cache when possible.
func (s *BookService) GetBooks(ctx context.Context) ([]domain.Book, error) {
	if cached, ok, _ := cache.Get[[]domain.Book](s.cache, booksKey); ok {
		return cached, nil
	}

	books, err := s.fetcher.FetchBooks(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.SetRaw(s.cache, booksKey, books)
	return books, nil
}

// GetBooksFresh fetches the book list from the network and merges the
// cached local-only state (download flag, file path, reading progress)
// into the result by id. Books absent from the fresh list are dropped;
// fresh books with no cached counterpart pass through unmodified. When
// the fetch fails the cached list is served verbatim.
func (s *BookService) GetBooksFresh(ctx context.Context) ([]domain.Book, error) {
	cached, hasCache, _ := cache.Get[[]domain.Book](s.cache, booksKey)

	books, err := s.fetcher.FetchBooks(ctx)
	if err != nil {
		if hasCache {
			s.logger.Info("network fetch failed, serving cached book list")
			return cached, nil
		}
		return nil, err
	}

	if hasCache && len(cached) > 0 {
		books = mergeBooks(books, cached)
	}
	_ = cache.SetRaw(s.cache, booksKey, books)
	return books, nil
}

// mergeBooks copies local-only fields from the old list onto the fresh
// one, matching by id.
func mergeBooks(fresh, old []domain.Book) []domain.Book {
	byID := make(map[string]domain.Book, len(old))
	for _, book := range old {
		byID[book.ID] = book
	}

	merged := make([]domain.Book, len(fresh))
	for i, book := range fresh {
		if prev, ok := byID[book.ID]; ok {
			book.IsDownloaded = prev.IsDownloaded
			book.Path = prev.Path
			if prev.PageCurrent > 0 {
				book.PageCurrent = prev.PageCurrent
			}
		}
		merged[i] = book
	}
	return merged
}

// GetBookByID returns one book, from the cached list when present.
func (s *BookService) GetBookByID(ctx context.Context, id string) (*domain.Book, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("book id is required")
	}

	if cached, ok, _ := cache.Get[[]domain.Book](s.cache, booksKey); ok {
		for _, book := range cached {
			if book.ID == id {
				return &book, nil
			}
		}
	}

	books, err := s.GetBooks(ctx)
	if err != nil {
		return nil, err
	}
	for _, book := range books {
		if book.ID == id {
			return &book, nil
		}
	}
	return nil, apperrors.NotFound("book " + id + " not found")
}

// UpdateDownloadStatus patches one book's download state in the cached
// list. Returns false when the list was never cached; a list that was
// never fetched cannot be patched.
func (s *BookService) UpdateDownloadStatus(id string, downloaded bool, path string) bool {
	if id == "" {
		return false
	}

	books, ok, _ := cache.Get[[]domain.Book](s.cache, booksKey)
	if !ok {
		return false
	}

	for i, book := range books {
		if book.ID == id {
			books[i].IsDownloaded = downloaded
			if downloaded {
				if path != "" {
					books[i].Path = path
				}
			} else {
				books[i].Path = ""
			}
		}
	}

	_ = cache.SetRaw(s.cache, booksKey, books)
	return true
}

// UpdateCurrentPage records reading progress for one book in the cached
// list. Returns false when the list was never cached.
func (s *BookService) UpdateCurrentPage(id string, pageNumber int) bool {
	if id == "" {
		return false
	}

	books, ok, _ := cache.Get[[]domain.Book](s.cache, booksKey)
	if !ok {
		return false
	}

	for i, book := range books {
		if book.ID == id {
			books[i].PageCurrent = pageNumber
		}
	}

	_ = cache.SetRaw(s.cache, booksKey, books)
	return true
}

// AllDownloaded returns the cached books flagged as downloaded.
func (s *BookService) AllDownloaded(ctx context.Context) ([]domain.Book, error) {
	books, err := s.GetBooks(ctx)
	if err != nil {
		return nil, err
	}

	downloaded := books[:0:0]
	for _, book := range books {
		if book.IsDownloaded {
			downloaded = append(downloaded, book)
		}
	}
	return downloaded, nil
}

// ClearCache removes the cached book list.
func (s *BookService) ClearCache() bool {
	return s.cache.Remove(booksKey)
}
