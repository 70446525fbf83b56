package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/store"
)

// setupCache opens a real store in a temp dir and wraps it in a cache.
func setupCache(t *testing.T) *cache.Cache {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "dharma-catalog-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return cache.New(s, nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
