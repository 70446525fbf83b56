package download

import (
	"strings"

	"github.com/dharmaapp/dharma-core/internal/cache"
)

// pathKeyPrefix namespaces the fast id-to-path entries.
const pathKeyPrefix = "offline_path_"

// PathIndex is the denormalized id-to-path lookup used for O(1)
// offline checks. Entries are derived state and possibly stale, so
// every lookup re-validates against the FileStore and purges entries
// whose file is gone.
type PathIndex struct {
	cache *cache.Cache
	files FileStore
}

// NewPathIndex creates a fast-path index persisted through the cache.
func NewPathIndex(c *cache.Cache, files FileStore) *PathIndex {
	return &PathIndex{cache: c, files: files}
}

// Set records the path for id.
func (x *PathIndex) Set(id, path string) {
	_ = cache.SetRaw(x.cache, pathKeyPrefix+id, path)
}

// Lookup returns the indexed path for id if its file still exists.
// A stale entry is purged and reported as a miss.
func (x *PathIndex) Lookup(id string) (string, bool) {
	path, ok, _ := cache.Get[string](x.cache, pathKeyPrefix+id)
	if !ok || path == "" {
		return "", false
	}
	if !x.files.Exists(path) {
		x.cache.Remove(pathKeyPrefix + id)
		return "", false
	}
	return path, true
}

// Remove drops the entry for id.
func (x *PathIndex) Remove(id string) {
	x.cache.Remove(pathKeyPrefix + id)
}

// Prune walks every entry and removes the ones whose file is missing.
func (x *PathIndex) Prune() {
	keys, err := x.cache.KV().Keys()
	if err != nil {
		return
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, pathKeyPrefix) {
			continue
		}
		path, ok, _ := cache.Get[string](x.cache, key)
		if !ok || path == "" || !x.files.Exists(path) {
			x.cache.Remove(key)
		}
	}
}
