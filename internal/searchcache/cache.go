// Package searchcache wraps an engine.Engine's FindTop/FindTopParallel calls
// with a Redis-backed result cache. Concurrent identical cache misses are
// collapsed via singleflight so a burst of requests for the same cold query
// only evaluates it once.
package searchcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arjun-iyer/corpusengine/internal/engine"
	"github.com/arjun-iyer/corpusengine/pkg/redis"
)

// Cache fronts an engine.Engine with a Redis result cache.
type Cache struct {
	client *redis.Client
	eng    *engine.Engine
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger

	hits   func()
	misses func()
}

// New creates a Cache wrapping eng, backed by client, with entries expiring
// after ttl. hits and misses, if non-nil, are called on every cache
// hit/miss for metrics purposes.
func New(client *redis.Client, eng *engine.Engine, ttl time.Duration, hits, misses func()) *Cache {
	if hits == nil {
		hits = func() {}
	}
	if misses == nil {
		misses = func() {}
	}
	return &Cache{
		client: client,
		eng:    eng,
		ttl:    ttl,
		logger: slog.Default().With("component", "searchcache"),
		hits:   hits,
		misses: misses,
	}
}

// FindTop serves raw/predicateStatus from cache when present, otherwise
// evaluates e.FindTop, caches the result, and returns it. predicateStatus
// selects the status predicate baked into the cache key; pass -1 for the
// default (StatusActual) predicate.
func (c *Cache) FindTop(ctx context.Context, raw string, predicateStatus int) ([]engine.Document, bool, error) {
	return c.findTop(ctx, raw, predicateStatus, false)
}

// FindTopParallel is the parallel-evaluator counterpart of FindTop.
func (c *Cache) FindTopParallel(ctx context.Context, raw string, predicateStatus int) ([]engine.Document, bool, error) {
	return c.findTop(ctx, raw, predicateStatus, true)
}

func (c *Cache) findTop(ctx context.Context, raw string, predicateStatus int, parallel bool) ([]engine.Document, bool, error) {
	key := cacheKey(raw, predicateStatus, parallel)

	if cached, ok := c.get(ctx, key); ok {
		c.hits()
		return cached, true, nil
	}
	c.misses()

	result, err, _ := c.group.Do(key, func() (any, error) {
		predicate := statusPredicate(predicateStatus)
		var docs []engine.Document
		var err error
		if parallel {
			docs, err = c.eng.FindTopParallel(ctx, raw, predicate)
		} else {
			docs, err = c.eng.FindTop(raw, predicate)
		}
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.([]engine.Document), false, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]engine.Document, bool) {
	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if !redis.IsNilError(err) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	var docs []engine.Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		c.logger.Warn("cache entry unmarshal failed", "key", key, "error", err)
		return nil, false
	}
	return docs, true
}

func (c *Cache) set(ctx context.Context, key string, docs []engine.Document) {
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Warn("cache entry marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached entry; callers invoke this after Add/Remove,
// since the core has no change-notification hook of its own.
func (c *Cache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, "corpusengine:search:*")
	if err != nil {
		return fmt.Errorf("invalidating search cache: %w", err)
	}
	c.logger.Info("search cache invalidated", "keys_removed", deleted)
	return nil
}

// statusPredicate maps a status code (or -1 for "no override") to the
// engine.Predicate FindTop expects.
func statusPredicate(predicateStatus int) engine.Predicate {
	if predicateStatus < 0 {
		return nil
	}
	return engine.StatusPredicate(engine.Status(predicateStatus))
}

// cacheKey combines (raw, predicateStatus, parallel) into a stable Redis
// key. Plus/minus word order in raw is part of the key deliberately: the
// engine's query parser is order-preserving for result construction even
// though relevance itself is order-independent, so two differently-ordered
// but equivalent queries are still cached separately rather than risking a
// subtly wrong assumption about equivalence.
func cacheKey(raw string, predicateStatus int, parallel bool) string {
	var b strings.Builder
	b.WriteString("corpusengine:search:")
	b.WriteString(strconv.Itoa(predicateStatus))
	b.WriteByte(':')
	if parallel {
		b.WriteString("p:")
	} else {
		b.WriteString("s:")
	}
	b.WriteString(raw)
	return b.String()
}
