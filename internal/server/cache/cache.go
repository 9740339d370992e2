// Package cache is a Redis-backed cache of ranked search results, keyed by
// the raw query and status filter. Duplicate concurrent misses collapse into
// one engine evaluation via singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/pkg/config"
	pkgredis "github.com/tfsearch/searchd/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches ranked result slices.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an established Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached results for (query, status), if present.
func (c *QueryCache) Get(ctx context.Context, query string, status document.Status) ([]document.Document, bool) {
	key := c.buildKey(query, status)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var results []document.Document
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", query, "key", key)
	return results, true
}

// Set stores results for (query, status) with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, query string, status document.Status, results []document.Document) {
	key := c.buildKey(query, status)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results or runs computeFn once per key,
// caching its output. The second return value reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	status document.Status,
	computeFn func() ([]document.Document, error),
) ([]document.Document, bool, error) {
	if results, ok := c.Get(ctx, query, status); ok {
		return results, true, nil
	}
	key := c.buildKey(query, status)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, query, status); ok {
			return results, nil
		}
		results, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, status, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]document.Document), false, nil
}

// Invalidate drops every cached search result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, status document.Status) string {
	raw := fmt.Sprintf("%s|status=%s", query, status)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
