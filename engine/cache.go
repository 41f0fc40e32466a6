// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"kasper/engine/shared/types"
)

// DefaultMaxCacheSize bounds the cache when no explicit size is configured.
const DefaultMaxCacheSize = 100

// CacheEntry is an insight retained for reuse. Entries are owned
// exclusively by the cache; eviction may destroy one at any time once it
// has expired or the size bound is exceeded.
type CacheEntry struct {
	Key       string
	Insight   *KASPERInsight
	CreatedAt time.Time
	ExpiresAt time.Time
}

// InsightCache is a keyed, size-bounded, TTL-aware store of produced
// insights. All access goes through one mutex: no caller ever observes a
// partially-evicted state.
type InsightCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	maxSize int
	ttls    map[types.Feature]time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewInsightCache creates a cache bounded at maxSize entries. ttlOverrides
// replaces the per-feature default TTLs where present; pass nil to use the
// defaults throughout.
func NewInsightCache(maxSize int, ttlOverrides map[types.Feature]time.Duration) *InsightCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxCacheSize
	}
	return &InsightCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
		ttls:    ttlOverrides,
		now:     time.Now,
	}
}

// ttl resolves the TTL for a feature, preferring configured overrides.
func (c *InsightCache) ttl(feature types.Feature) time.Duration {
	if c.ttls != nil {
		if d, ok := c.ttls[feature]; ok {
			return d
		}
	}
	return types.FeatureTTL(feature)
}

// Key derives the context-sensitive, time-bucketed cache key for a
// request. Two requests differing in feature, kind, or any numeric
// identifier inside PrimaryData never collide: every numeric identifier is
// appended as its own component in addition to the content hash. The hour
// bucket makes entries roll over without explicit invalidation.
func (c *InsightCache) Key(req *InsightRequest) string {
	var b strings.Builder
	b.WriteString(string(req.Feature))
	b.WriteByte('|')
	b.WriteString(string(req.Kind))
	b.WriteByte('|')
	b.WriteString(hashPrimaryData(req.Context.PrimaryData))

	for _, id := range numericIdentifiers(req.Context.PrimaryData) {
		b.WriteByte('|')
		b.WriteString(id)
	}

	bucket := c.now().UTC().Truncate(time.Hour).Unix()
	fmt.Fprintf(&b, "|t%d", bucket)
	return b.String()
}

// hashPrimaryData hashes the full content of PrimaryData in key order.
func hashPrimaryData(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v;", k, data[k])
	}
	return fmt.Sprintf("h%x", h.Sum64())
}

// numericIdentifiers extracts the numeric values from PrimaryData as
// key=value components, sorted by key so derivation is deterministic.
func numericIdentifiers(data map[string]interface{}) []string {
	var out []string
	for k, v := range data {
		switch n := v.(type) {
		case int:
			out = append(out, fmt.Sprintf("%s=%d", k, n))
		case int64:
			out = append(out, fmt.Sprintf("%s=%d", k, n))
		case float64:
			// JSON decoding yields float64 for all numbers.
			out = append(out, fmt.Sprintf("%s=%g", k, n))
		}
	}
	sort.Strings(out)
	return out
}

// Get returns the cached insight for key, or nil on miss. An entry past
// ExpiresAt is treated as a miss; removal is left to the lazy sweep on the
// next write.
func (c *InsightCache) Get(key string) *KASPERInsight {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().After(entry.ExpiresAt) {
		return nil
	}
	return entry.Insight
}

// HasFresh reports whether a non-expired entry exists for key.
func (c *InsightCache) HasFresh(key string) bool {
	return c.Get(key) != nil
}

// Put inserts or overwrites the entry for key. Stale entries are swept
// lazily here; when insertion would exceed the size bound, the oldest 25%
// of entries by creation time are evicted first in one batch.
func (c *InsightCache) Put(key string, insight *KASPERInsight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	// Lazy expiry sweep.
	for k, e := range c.entries {
		if now.After(e.ExpiresAt) {
			delete(c.entries, k)
		}
	}

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked(c.maxSize / 4)
	}

	c.entries[key] = &CacheEntry{
		Key:       key,
		Insight:   insight,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl(insight.Feature)),
	}
}

// evictOldestLocked removes the n oldest entries by creation time. Caller
// holds the mutex.
func (c *InsightCache) evictOldestLocked(n int) {
	if n < 1 {
		n = 1
	}
	if n > len(c.entries) {
		n = len(c.entries)
	}

	entries := make([]*CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	for _, e := range entries[:n] {
		delete(c.entries, e.Key)
	}
}

// Size returns the current entry count.
func (c *InsightCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *InsightCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}
