package download

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmaapp/dharma-core/internal/domain"
)

func setupIndex(t *testing.T) (*TrackIndex, string) {
	t.Helper()
	dir := t.TempDir()
	return NewTrackIndex(setupCache(t), NewDiskStore(), testLogger()), dir
}

func writeTrackFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))
	return path
}

func TestTrackIndex_UpsertAppendsAndUpdates(t *testing.T) {
	idx, dir := setupIndex(t)
	path := writeTrackFile(t, dir, "a1.mp3")

	idx.Upsert(domain.OfflineTrack{ID: "a1", CategoryID: "cat1", Path: path, Title: "Old"})
	all := idx.All()
	require.Len(t, all, 1)
	firstStamp := all[0].LastPlayedAt
	assert.NotZero(t, firstStamp)

	// Update in place keeps the play timestamp.
	idx.Upsert(domain.OfflineTrack{ID: "a1", CategoryID: "cat1", Path: path, Title: "New"})
	all = idx.All()
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].Title)
	assert.Equal(t, firstStamp, all[0].LastPlayedAt)
}

func TestTrackIndex_AllPrunesMissingFiles(t *testing.T) {
	idx, dir := setupIndex(t)
	keep := writeTrackFile(t, dir, "keep.mp3")
	gone := writeTrackFile(t, dir, "gone.mp3")

	idx.Upsert(domain.OfflineTrack{ID: "keep", CategoryID: "cat1", Path: keep})
	idx.Upsert(domain.OfflineTrack{ID: "gone", CategoryID: "cat2", Path: gone})
	require.NoError(t, os.Remove(gone))

	all := idx.All()
	require.Len(t, all, 1)
	assert.Equal(t, "keep", all[0].ID)

	// Pruned list was persisted; categories healed.
	assert.Len(t, idx.load(), 1)
	assert.Equal(t, []string{"cat1"}, idx.Categories())
}

func TestTrackIndex_ByCategory(t *testing.T) {
	idx, dir := setupIndex(t)
	a := writeTrackFile(t, dir, "a.mp3")
	b := writeTrackFile(t, dir, "b.mp3")

	idx.Upsert(domain.OfflineTrack{ID: "a", CategoryID: "cat1", Path: a})
	idx.Upsert(domain.OfflineTrack{ID: "b", CategoryID: "cat2", Path: b})

	got := idx.ByCategory("cat2")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Empty(t, idx.ByCategory("cat3"))
}

func TestTrackIndex_RemoveDeletesFile(t *testing.T) {
	idx, dir := setupIndex(t)
	path := writeTrackFile(t, dir, "a1.mp3")
	idx.Upsert(domain.OfflineTrack{ID: "a1", CategoryID: "cat1", Path: path})

	assert.True(t, idx.Remove("a1"))
	assert.NoFileExists(t, path)
	assert.Empty(t, idx.All())
	assert.Empty(t, idx.Categories())

	assert.False(t, idx.Remove("a1"))
}

func TestTrackIndex_TouchLastPlayed(t *testing.T) {
	idx, dir := setupIndex(t)
	path := writeTrackFile(t, dir, "a1.mp3")

	base := time.UnixMilli(1000)
	idx.now = func() time.Time { return base }
	idx.Upsert(domain.OfflineTrack{ID: "a1", CategoryID: "cat1", Path: path})

	idx.now = func() time.Time { return base.Add(time.Hour) }
	idx.TouchLastPlayed("a1")

	all := idx.All()
	require.Len(t, all, 1)
	assert.Equal(t, base.Add(time.Hour).UnixMilli(), all[0].LastPlayedAt)

	// Touching an unknown id is a no-op.
	idx.TouchLastPlayed("nope")
	assert.Len(t, idx.All(), 1)
}

func TestPathIndex_LookupPurgesStaleEntry(t *testing.T) {
	dir := t.TempDir()
	c := setupCache(t)
	idx := NewPathIndex(c, NewDiskStore())

	path := writeTrackFile(t, dir, "a1.mp3")
	idx.Set("a1", path)

	got, ok := idx.Lookup("a1")
	require.True(t, ok)
	assert.Equal(t, path, got)

	require.NoError(t, os.Remove(path))
	_, ok = idx.Lookup("a1")
	assert.False(t, ok)

	// The stale entry was purged, not just skipped.
	raw, found, err := c.KV().Get(pathKeyPrefix + "a1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, raw)
}
