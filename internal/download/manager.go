package download

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// AssetResolver turns an asset id into its remote URL.
type AssetResolver interface {
	AssetURL(id string) string
}

// AudioPatcher is the slice of the audio catalog proxy the manager
// patches after a download state change.
type AudioPatcher interface {
	UpdateDownloadStatus(collectionID, assetID string, downloaded bool, path string) bool
}

// Manager downloads audio assets and keeps the offline indexes and the
// catalog proxy's cached entries in sync with the files on disk.
//
// Concurrent downloads of the same id coalesce into one transfer.
type Manager struct {
	files   FileStore
	fetcher *MediaFetcher
	tracks  *TrackIndex
	paths   *PathIndex
	catalog AudioPatcher
	assets  AssetResolver
	dir     string
	logger  *slog.Logger
	group   singleflight.Group
}

// NewManager creates an audio download manager writing into dir.
func NewManager(
	files FileStore,
	fetcher *MediaFetcher,
	tracks *TrackIndex,
	paths *PathIndex,
	catalog AudioPatcher,
	assets AssetResolver,
	dir string,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		files:   files,
		fetcher: fetcher,
		tracks:  tracks,
		paths:   paths,
		catalog: catalog,
		assets:  assets,
		dir:     dir,
		logger:  logger,
	}
}

// localPath is the deterministic on-disk location for an asset id.
func (m *Manager) localPath(id string) string {
	return filepath.Join(m.dir, id+".mp3")
}

// Download fetches the asset for id into the download directory and
// records it in the indexes. A second call for an id already in flight
// joins the running transfer instead of starting another.
func (m *Manager) Download(ctx context.Context, id, categoryID, title string) (string, error) {
	if id == "" {
		return "", apperrors.InvalidArgument("asset id is required")
	}

	path, err, _ := m.group.Do(id, func() (any, error) {
		return m.download(ctx, id, categoryID, title)
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

func (m *Manager) download(ctx context.Context, id, categoryID, title string) (string, error) {
	dest := m.localPath(id)

	if err := m.fetcher.Fetch(ctx, m.assets.AssetURL(id), dest, "audio/mpeg"); err != nil {
		return "", err
	}

	m.paths.Set(id, dest)
	m.tracks.Upsert(domain.OfflineTrack{
		ID:         id,
		CategoryID: categoryID,
		Path:       dest,
		Title:      title,
	})
	if !m.catalog.UpdateDownloadStatus(categoryID, id, true, dest) {
		m.logger.Warn("no cached collection to patch after download", "category", categoryID, "id", id)
	}

	return dest, nil
}

// Remove deletes the downloaded file for id and clears every index
// entry referring to it.
func (m *Manager) Remove(id, categoryID string) error {
	if id == "" {
		return apperrors.InvalidArgument("asset id is required")
	}

	path, ok := m.paths.Lookup(id)
	if !ok {
		// Slow path: the fast index lost the entry.
		for _, track := range m.tracks.All() {
			if track.ID == id {
				path = track.Path
				break
			}
		}
	}
	if path != "" {
		if err := m.files.Remove(path); err != nil {
			m.logger.Warn("failed to delete downloaded file", "id", id, "path", path, "error", err)
		}
	}

	m.paths.Remove(id)
	m.tracks.Remove(id)
	m.catalog.UpdateDownloadStatus(categoryID, id, false, "")
	return nil
}

// CanPlayOffline reports whether id has a valid local file.
func (m *Manager) CanPlayOffline(id string) bool {
	_, ok := m.OfflinePath(id)
	return ok
}

// OfflinePath resolves the local file for id, fast index first with a
// full-index fallback. A stale fast entry is purged and, when the full
// index still has a valid record, repaired.
func (m *Manager) OfflinePath(id string) (string, bool) {
	if path, ok := m.paths.Lookup(id); ok {
		return path, true
	}

	for _, track := range m.tracks.All() {
		if track.ID == id {
			m.paths.Set(id, track.Path)
			return track.Path, true
		}
	}
	return "", false
}

// ListDownloaded returns every valid downloaded track. This is the
// canonical repair pass: invalid records are pruned by the index walk
// and the fast index is re-populated for the survivors.
func (m *Manager) ListDownloaded() []domain.OfflineTrack {
	tracks := m.tracks.All()
	for _, track := range tracks {
		m.paths.Set(track.ID, track.Path)
	}
	return tracks
}

// TouchLastPlayed stamps the downloaded track with the current time.
func (m *Manager) TouchLastPlayed(id string) {
	m.tracks.TouchLastPlayed(id)
}

// UsedStorage sums the sizes of all valid downloaded files.
// Per-file stat failures contribute zero.
func (m *Manager) UsedStorage() int64 {
	var total int64
	for _, track := range m.tracks.All() {
		size, err := m.files.Size(track.Path)
		if err != nil {
			continue
		}
		total += size
	}
	return total
}

// Reconcile prunes every index entry whose backing file is gone and
// repairs the fast index from the surviving records. Intended to run
// eagerly, on startup or when the download directory changes.
func (m *Manager) Reconcile() {
	before := len(m.tracks.load())
	tracks := m.ListDownloaded()
	m.paths.Prune()
	if pruned := before - len(tracks); pruned > 0 {
		m.logger.Info("reconciled offline indexes", "valid", len(tracks), "pruned", pruned)
	}
}
