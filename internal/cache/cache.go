// Package cache implements the freshness-enveloped key-value cache
// shared by all catalog proxies.
//
// Values are stored as JSON envelopes carrying a write timestamp so the
// eviction policy can identify the oldest entry. Readers tolerate the
// legacy raw format (payload stored without an envelope). Cache writes
// are best-effort: a failed write triggers a single eviction and is
// then abandoned, never blocking the caller.
package cache

import (
	"log/slog"
	"strings"
	"time"

	"encoding/json/v2"

	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// KV is the durable key-value store the cache persists to.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	GetMulti(keys []string) (map[string][]byte, error)
	DeleteMulti(keys []string) error
}

// Cache provides enveloped reads and writes over a KV store.
type Cache struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// New creates a cache over the given store.
func New(kv KV, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// envelope wraps a payload with its write timestamp in milliseconds.
type envelope[T any] struct {
	Data      *T    `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// Get reads the value stored at key.
//
// The boolean reports a usable hit. Malformed entries and store
// failures are returned as an error alongside ok=false so callers that
// care can tell "no data" from "failure", but they are always safe to
// treat as a plain miss.
func Get[T any](c *Cache, key string) (T, bool, error) {
	var zero T

	raw, ok, err := c.kv.Get(key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return *env.Data, true, nil
	}

	// Legacy raw format: the payload was stored without an envelope.
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("malformed cache entry", "key", key, "error", err)
		return zero, false, apperrors.Wrap(err, apperrors.CodeCacheCorrupt, "parse cache entry "+key)
	}
	return value, true, nil
}

// Set stores value at key wrapped in a timestamped envelope.
//
// On a store failure the oldest cache entry is evicted and the write is
// retried once; a second failure is logged and swallowed. Callers may
// ignore the returned error.
func Set[T any](c *Cache, key string, value T) error {
	env := envelope[T]{Data: &value, Timestamp: c.now().UnixMilli()}
	raw, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return apperrors.WrapInternal(err, "marshal cache entry "+key)
	}
	return c.write(key, raw)
}

// SetRaw stores value at key without an envelope.
// Used where a proxy manages its own array-of-records format and does
// not need freshness metadata.
func SetRaw[T any](c *Cache, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return apperrors.WrapInternal(err, "marshal cache entry "+key)
	}
	return c.write(key, raw)
}

// write persists raw bytes, evicting once and retrying on failure.
func (c *Cache) write(key string, raw []byte) error {
	err := c.kv.Set(key, raw)
	if err == nil {
		return nil
	}

	c.logger.Warn("cache write failed, evicting oldest entry", "key", key, "error", err)
	c.EvictOldest()

	if retryErr := c.kv.Set(key, raw); retryErr != nil {
		c.logger.Warn("cache write failed after eviction", "key", key, "error", retryErr)
		return apperrors.Wrap(retryErr, apperrors.CodeStorageFull, "cache write "+key)
	}
	return nil
}

// Remove deletes one key and reports whether the store operation succeeded.
func (c *Cache) Remove(key string) bool {
	if err := c.kv.Delete(key); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear deletes every key in the store.
func (c *Cache) Clear() error {
	keys, err := c.kv.Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.kv.DeleteMulti(keys); err != nil {
		return err
	}
	c.logger.Info("cache cleared", "keys", len(keys))
	return nil
}

// ClearPrefix deletes every key starting with prefix.
func (c *Cache) ClearPrefix(prefix string) error {
	keys, err := c.kv.Keys()
	if err != nil {
		return err
	}
	matched := keys[:0:0]
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return c.kv.DeleteMulti(matched)
}

// KV exposes the underlying store for consumers that manage raw
// entries directly, such as the download fast-path index.
func (c *Cache) KV() KV {
	return c.kv
}
