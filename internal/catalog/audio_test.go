package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// stubAudioFetcher counts calls and serves canned results.
type stubAudioFetcher struct {
	categories    []domain.AudioCollection
	detail        *domain.AudioCollectionDetail
	err           error
	categoryCalls int
	detailCalls   int
}

func (f *stubAudioFetcher) FetchAudioCategory(_ context.Context, _ string) ([]domain.AudioCollection, error) {
	f.categoryCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *stubAudioFetcher) FetchAudioDetail(_ context.Context, _ string) (*domain.AudioCollectionDetail, error) {
	f.detailCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func TestAudioGetCategory_FirstFetchCachesResult(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{categories: []domain.AudioCollection{
		{ID: "col1", Name: "Dharma Talks"},
	}}
	svc := NewAudioService(c, fetcher, testLogger())
	ctx := context.Background()

	got, err := svc.GetCategory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fetcher.categories, got)
	assert.Equal(t, 1, fetcher.categoryCalls)

	// Second read must come from cache.
	got, err = svc.GetCategory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fetcher.categories, got)
	assert.Equal(t, 1, fetcher.categoryCalls)
}

func TestAudioGetCategoryFresh_FallsBackToCache(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{categories: []domain.AudioCollection{{ID: "col1", Name: "Talks"}}}
	svc := NewAudioService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetCategoryFresh(ctx, "cat1")
	require.NoError(t, err)

	fetcher.err = apperrors.Network("offline")
	got, err := svc.GetCategoryFresh(ctx, "cat1")
	require.NoError(t, err)
	assert.Equal(t, []domain.AudioCollection{{ID: "col1", Name: "Talks"}}, got)
}

func TestAudioGetCategoryFresh_NoCacheNoNetworkPropagates(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{err: apperrors.Network("offline")}
	svc := NewAudioService(c, fetcher, testLogger())

	_, err := svc.GetCategoryFresh(context.Background(), "cat1")
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
}

func TestAudioGetDetailFresh_MergePreservesDownloadState(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{detail: &domain.AudioCollectionDetail{
		ID:   "col1",
		Name: "Retreat",
		Audios: []domain.AudioItem{
			{Audio: []string{"a1"}, Title: "Old Title"},
		},
	}}
	svc := NewAudioService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "col1")
	require.NoError(t, err)

	// Record a download against the cached copy.
	require.True(t, svc.UpdateDownloadStatus("col1", "a1", true, "/data/a1.mp3"))

	// Server renamed the track; local download state must survive.
	fetcher.detail = &domain.AudioCollectionDetail{
		ID:   "col1",
		Name: "Retreat",
		Audios: []domain.AudioItem{
			{Audio: []string{"a1"}, Title: "New Title"},
			{Audio: []string{"a2"}, Title: "Brand New"},
		},
	}

	got, err := svc.GetDetailFresh(ctx, "col1")
	require.NoError(t, err)
	require.Len(t, got.Audios, 2)

	assert.Equal(t, "New Title", got.Audios[0].Title)
	assert.True(t, got.Audios[0].IsDownloadable)
	assert.Equal(t, "/data/a1.mp3", got.Audios[0].Path)

	assert.False(t, got.Audios[1].IsDownloadable)
	assert.Empty(t, got.Audios[1].Path)
}

func TestAudioGetDetailFresh_DropsStaleTracks(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{detail: &domain.AudioCollectionDetail{
		ID: "col1",
		Audios: []domain.AudioItem{
			{Audio: []string{"a1"}, Title: "Keep"},
			{Audio: []string{"gone"}, Title: "Removed"},
		},
	}}
	svc := NewAudioService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "col1")
	require.NoError(t, err)
	require.True(t, svc.UpdateDownloadStatus("col1", "gone", true, "/data/gone.mp3"))

	fetcher.detail = &domain.AudioCollectionDetail{
		ID:     "col1",
		Audios: []domain.AudioItem{{Audio: []string{"a1"}, Title: "Keep"}},
	}

	got, err := svc.GetDetailFresh(ctx, "col1")
	require.NoError(t, err)
	require.Len(t, got.Audios, 1)
	assert.Equal(t, "a1", got.Audios[0].AssetID())
}

func TestAudioGetDetailFresh_FallsBackToCache(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubAudioFetcher{detail: &domain.AudioCollectionDetail{ID: "col1", Name: "Retreat"}}
	svc := NewAudioService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "col1")
	require.NoError(t, err)

	fetcher.err = apperrors.Network("offline")
	got, err := svc.GetDetailFresh(ctx, "col1")
	require.NoError(t, err)
	assert.Equal(t, "Retreat", got.Name)
}

func TestAudioUpdateDownloadStatus_NoCacheReturnsFalse(t *testing.T) {
	c := setupCache(t)
	svc := NewAudioService(c, &stubAudioFetcher{}, testLogger())

	assert.False(t, svc.UpdateDownloadStatus("never-cached", "a1", true, "/x"))
	assert.False(t, svc.UpdateDownloadStatus("col1", "", true, "/x"))
}
