package cache

import (
	"encoding/json/v2"
)

// timestampOnly extracts just the freshness metadata from an envelope.
type timestampOnly struct {
	Timestamp int64 `json:"timestamp"`
}

// EvictOldest deletes exactly one entry: the one with the smallest
// envelope timestamp, ties broken by first encountered.
//
// Entries with no parseable timestamp (legacy raw format, corrupt JSON)
// count as timestamp zero and are therefore evicted first. A corrupt
// entry can never be served again, so reclaiming its space before any
// live entry is the deliberate choice here.
//
// This is reactive, single-entry eviction: it runs only after a write
// has already failed, never proactively.
func (c *Cache) EvictOldest() {
	keys, err := c.kv.Keys()
	if err != nil || len(keys) == 0 {
		return
	}

	entries, err := c.kv.GetMulti(keys)
	if err != nil {
		return
	}

	oldestKey := ""
	oldestTime := int64(-1)
	for _, key := range keys {
		raw, ok := entries[key]
		if !ok {
			continue
		}

		var ts int64
		var env timestampOnly
		if err := json.Unmarshal(raw, &env); err == nil {
			ts = env.Timestamp
		}

		if oldestTime < 0 || ts < oldestTime {
			oldestTime = ts
			oldestKey = key
		}
	}

	if oldestKey == "" {
		return
	}

	if err := c.kv.Delete(oldestKey); err != nil {
		c.logger.Warn("eviction delete failed", "key", oldestKey, "error", err)
		return
	}
	c.logger.Info("evicted oldest cache entry", "key", oldestKey, "timestamp", oldestTime)
}
