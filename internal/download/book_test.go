package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

type bookPatch struct {
	id         string
	downloaded bool
	path       string
}

type fakeBookPatcher struct {
	calls []bookPatch
}

func (p *fakeBookPatcher) UpdateDownloadStatus(id string, downloaded bool, path string) bool {
	p.calls = append(p.calls, bookPatch{id, downloaded, path})
	return true
}

func setupBookDownloader(t *testing.T, handler http.Handler) (*BookDownloader, *fakeBookPatcher, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	patcher := &fakeBookPatcher{}
	fetcher := NewMediaFetcher(10*time.Second, testLogger())
	d := NewBookDownloader(NewDiskStore(), fetcher, patcher, fakeResolver{base: server.URL}, dir, testLogger())
	return d, patcher, dir
}

func TestBookDownload_HappyPath(t *testing.T) {
	d, patcher, dir := setupBookDownloader(t, audioHandler("%PDF-1.4 bytes"))

	path, err := d.Download(context.Background(), "b1", "pdf-asset-1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b1.pdf"), path)
	assert.FileExists(t, path)
	assert.True(t, d.IsDownloaded("b1"))

	require.Len(t, patcher.calls, 1)
	assert.Equal(t, bookPatch{"b1", true, path}, patcher.calls[0])
}

func TestBookDownload_EmptyIDsInvalid(t *testing.T) {
	d, _, _ := setupBookDownloader(t, audioHandler("%PDF"))

	_, err := d.Download(context.Background(), "", "asset")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArgument))
	_, err = d.Download(context.Background(), "b1", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArgument))
}

func TestBookDownload_BadStatusLeavesNothing(t *testing.T) {
	d, patcher, dir := setupBookDownloader(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := d.Download(context.Background(), "b1", "asset")
	assert.True(t, apperrors.Is(err, apperrors.ErrDownloadFailed))
	assert.NoFileExists(t, filepath.Join(dir, "b1.pdf"))
	assert.False(t, d.IsDownloaded("b1"))
	assert.Empty(t, patcher.calls)
}

func TestBookRemove_ClearsFileAndPatchesProxy(t *testing.T) {
	d, patcher, dir := setupBookDownloader(t, audioHandler("%PDF-1.4 bytes"))

	_, err := d.Download(context.Background(), "b1", "asset")
	require.NoError(t, err)

	require.NoError(t, d.Remove("b1"))
	assert.NoFileExists(t, filepath.Join(dir, "b1.pdf"))
	assert.False(t, d.IsDownloaded("b1"))
	assert.Equal(t, bookPatch{"b1", false, ""}, patcher.calls[len(patcher.calls)-1])
}
