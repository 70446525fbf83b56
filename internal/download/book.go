package download

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// BookPatcher is the slice of the book catalog proxy the downloader
// patches after a download state change.
type BookPatcher interface {
	UpdateDownloadStatus(id string, downloaded bool, path string) bool
}

// BookDownloader is the PDF variant of the audio manager. Books carry
// no category or track index; the catalog proxy's cached list is the
// single record of what is downloaded, validated against disk.
type BookDownloader struct {
	files   FileStore
	fetcher *MediaFetcher
	books   BookPatcher
	assets  AssetResolver
	dir     string
	logger  *slog.Logger
	group   singleflight.Group
}

// NewBookDownloader creates a book downloader writing into dir.
func NewBookDownloader(
	files FileStore,
	fetcher *MediaFetcher,
	books BookPatcher,
	assets AssetResolver,
	dir string,
	logger *slog.Logger,
) *BookDownloader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookDownloader{
		files:   files,
		fetcher: fetcher,
		books:   books,
		assets:  assets,
		dir:     dir,
		logger:  logger,
	}
}

// localPath is the deterministic on-disk location for a book id.
func (d *BookDownloader) localPath(bookID string) string {
	return filepath.Join(d.dir, bookID+".pdf")
}

// Download fetches the PDF asset for a book and patches the cached
// book entry with the local path. Concurrent calls for one book
// coalesce into a single transfer.
func (d *BookDownloader) Download(ctx context.Context, bookID, assetID string) (string, error) {
	if bookID == "" || assetID == "" {
		return "", apperrors.InvalidArgument("book id and asset id are required")
	}

	path, err, _ := d.group.Do(bookID, func() (any, error) {
		dest := d.localPath(bookID)
		if err := d.fetcher.Fetch(ctx, d.assets.AssetURL(assetID), dest, "application/pdf"); err != nil {
			return nil, err
		}
		if !d.books.UpdateDownloadStatus(bookID, true, dest) {
			d.logger.Warn("no cached book list to patch after download", "book", bookID)
		}
		return dest, nil
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

// Remove deletes the downloaded PDF and clears the cached entry's
// download state.
func (d *BookDownloader) Remove(bookID string) error {
	if bookID == "" {
		return apperrors.InvalidArgument("book id is required")
	}

	if err := d.files.Remove(d.localPath(bookID)); err != nil {
		d.logger.Warn("failed to delete book file", "book", bookID, "error", err)
	}
	d.books.UpdateDownloadStatus(bookID, false, "")
	return nil
}

// IsDownloaded reports whether the book's PDF exists on disk.
func (d *BookDownloader) IsDownloaded(bookID string) bool {
	return d.files.Exists(d.localPath(bookID))
}
