package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

type stubVideoFetcher struct {
	categories    []domain.VideoCollection
	detail        *domain.VideoCollectionDetail
	err           error
	categoryCalls int
}

func (f *stubVideoFetcher) FetchVideoCategories(_ context.Context) ([]domain.VideoCollection, error) {
	f.categoryCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *stubVideoFetcher) FetchVideoDetail(_ context.Context, _ string) (*domain.VideoCollectionDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func TestVideoGetCategories_CachesFirstFetch(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubVideoFetcher{categories: []domain.VideoCollection{{ID: "v1", Name: "Talks"}}}
	svc := NewVideoService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	_, err = svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.categoryCalls)
}

func TestVideoGetCategoriesFresh_FallsBackToCache(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubVideoFetcher{categories: []domain.VideoCollection{{ID: "v1", Name: "Talks"}}}
	svc := NewVideoService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetCategoriesFresh(ctx)
	require.NoError(t, err)

	fetcher.err = apperrors.Network("offline")
	got, err := svc.GetCategoriesFresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetcher.categories, got)
}

func TestVideoGetDetailFresh_ReplacesWithoutMerge(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubVideoFetcher{detail: &domain.VideoCollectionDetail{
		ID:     "v1",
		Videos: []domain.VideoItem{{VideoID: "vid1", Title: "Old"}},
	}}
	svc := NewVideoService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "v1")
	require.NoError(t, err)

	fetcher.detail = &domain.VideoCollectionDetail{
		ID:     "v1",
		Videos: []domain.VideoItem{{VideoID: "vid2", Title: "New"}},
	}

	got, err := svc.GetDetailFresh(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, "New", got.Videos[0].Title)
}

func TestVideoGetDetailFresh_FallsBackToCache(t *testing.T) {
	c := setupCache(t)
	fetcher := &stubVideoFetcher{detail: &domain.VideoCollectionDetail{
		ID:     "v1",
		Videos: []domain.VideoItem{{VideoID: "vid1", Title: "Talks"}},
	}}
	svc := NewVideoService(c, fetcher, testLogger())
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "v1")
	require.NoError(t, err)

	fetcher.err = apperrors.Network("offline")
	got, err := svc.GetDetailFresh(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, "Talks", got.Videos[0].Title)
}
