package download

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/domain"
)

const (
	tracksKey     = "offline_audio_tracks"
	categoriesKey = "offline_audio_categories"
)

// TrackIndex is the persistent record of downloaded audio tracks plus
// the derived set of categories that have at least one download.
//
// Records are only trusted while their path resolves to a real file:
// every read validates against the FileStore and prunes records whose
// backing file disappeared. The category set heals itself the same way.
type TrackIndex struct {
	mu     sync.Mutex
	cache  *cache.Cache
	files  FileStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTrackIndex creates an index persisted through the given cache.
func NewTrackIndex(c *cache.Cache, files FileStore, logger *slog.Logger) *TrackIndex {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TrackIndex{cache: c, files: files, logger: logger, now: time.Now}
}

// Upsert records a download, updating in place when the id already
// exists and appending otherwise. The category set is refreshed for the
// touched category.
func (x *TrackIndex) Upsert(track domain.OfflineTrack) {
	x.mu.Lock()
	defer x.mu.Unlock()

	tracks := x.load()
	found := false
	for i := range tracks {
		if tracks[i].ID == track.ID {
			track.LastPlayedAt = tracks[i].LastPlayedAt
			tracks[i] = track
			found = true
			break
		}
	}
	if !found {
		track.LastPlayedAt = x.now().UnixMilli()
		tracks = append(tracks, track)
	}

	x.persist(tracks)
	x.rebuildCategories(tracks)
}

// All returns every record whose backing file still exists. Invalid
// records are pruned and the pruned list persisted.
func (x *TrackIndex) All() []domain.OfflineTrack {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.validateLocked()
}

// ByCategory returns the valid records for one category.
func (x *TrackIndex) ByCategory(categoryID string) []domain.OfflineTrack {
	all := x.All()
	matched := all[:0:0]
	for _, track := range all {
		if track.CategoryID == categoryID {
			matched = append(matched, track)
		}
	}
	return matched
}

// Remove drops the record for id and deletes its backing file.
// Returns false when no record matched.
func (x *TrackIndex) Remove(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	tracks := x.load()
	kept := tracks[:0:0]
	removed := false
	for _, track := range tracks {
		if track.ID == id {
			removed = true
			if track.Path != "" {
				if err := x.files.Remove(track.Path); err != nil {
					x.logger.Warn("failed to delete track file", "id", id, "path", track.Path, "error", err)
				}
			}
			continue
		}
		kept = append(kept, track)
	}
	if !removed {
		return false
	}

	x.persist(kept)
	x.rebuildCategories(kept)
	return true
}

// TouchLastPlayed stamps the record for id with the current time.
// No-op when the id is not indexed.
func (x *TrackIndex) TouchLastPlayed(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	tracks := x.load()
	for i := range tracks {
		if tracks[i].ID == id {
			tracks[i].LastPlayedAt = x.now().UnixMilli()
			x.persist(tracks)
			return
		}
	}
}

// Categories returns the ids of categories holding at least one valid
// downloaded track.
func (x *TrackIndex) Categories() []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	categories, ok, _ := cache.Get[[]string](x.cache, categoriesKey)
	if !ok {
		return nil
	}
	return categories
}

// load reads the raw track list without validation.
func (x *TrackIndex) load() []domain.OfflineTrack {
	tracks, ok, _ := cache.Get[[]domain.OfflineTrack](x.cache, tracksKey)
	if !ok {
		return nil
	}
	return tracks
}

// validateLocked prunes records with missing files, persisting when
// anything changed. Callers must hold the mutex.
func (x *TrackIndex) validateLocked() []domain.OfflineTrack {
	tracks := x.load()
	valid := tracks[:0:0]
	for _, track := range tracks {
		if track.Path != "" && x.files.Exists(track.Path) {
			valid = append(valid, track)
			continue
		}
		x.logger.Info("pruning offline track with missing file", "id", track.ID, "path", track.Path)
	}

	if len(valid) != len(tracks) {
		x.persist(valid)
		x.rebuildCategories(valid)
	}
	return valid
}

func (x *TrackIndex) persist(tracks []domain.OfflineTrack) {
	if tracks == nil {
		tracks = []domain.OfflineTrack{}
	}
	_ = cache.SetRaw(x.cache, tracksKey, tracks)
}

func (x *TrackIndex) rebuildCategories(tracks []domain.OfflineTrack) {
	var categories []string
	for _, track := range tracks {
		if track.CategoryID != "" && !slices.Contains(categories, track.CategoryID) {
			categories = append(categories, track.CategoryID)
		}
	}
	if categories == nil {
		categories = []string{}
	}
	_ = cache.SetRaw(x.cache, categoriesKey, categories)
}
