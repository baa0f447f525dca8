// Package urlcache TTL-caches externally-resolved display URLs for stored
// images. Entries are keyed by (storage key, transform options) so different
// display variants of the same object cache independently.
package urlcache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
)

// DefaultTTL keeps resolved URLs for just under a day so signed URLs issued
// with a 24h lifetime never outlive their grant.
const DefaultTTL = 23 * time.Hour

type entry struct {
	url       string
	expiresAt time.Time
}

// Cache resolves and TTL-caches display URLs through a storage provider.
type Cache struct {
	sp  ports.StorageProvider
	ttl time.Duration
	log *logger.Logger

	mu    sync.Mutex
	items map[string]entry

	now func() time.Time
}

func NewCache(sp ports.StorageProvider, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		sp:    sp,
		ttl:   ttl,
		log:   log.WithComponent("urlcache"),
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Resolve returns a display URL for the stored object, from cache when
// possible. If the storage capability is unavailable it returns "" so the
// caller can proceed with a placeholder; it never returns an error.
func (c *Cache) Resolve(ctx context.Context, storageKey string, opts ports.TransformOptions) string {
	if storageKey == "" {
		return ""
	}

	key := compositeKey(storageKey, opts)

	c.mu.Lock()
	if e, ok := c.items[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.url
	}
	c.mu.Unlock()

	u, err := c.sp.ResolveURL(ctx, storageKey, opts)
	if err != nil {
		c.log.Warn("url resolution failed, using placeholder",
			"storage_key", storageKey, "error", err.Error())
		return ""
	}

	c.mu.Lock()
	c.items[key] = entry{url: u, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return u
}

// ResolveBatch resolves every key concurrently and returns a completed map.
// There is no ordering guarantee; empty keys resolve to "".
func (c *Cache) ResolveBatch(ctx context.Context, storageKeys []string, opts ports.TransformOptions) map[string]string {
	out := make(map[string]string, len(storageKeys))
	if len(storageKeys) == 0 {
		return out
	}

	var (
		wg    sync.WaitGroup
		outMu sync.Mutex
	)
	seen := make(map[string]struct{}, len(storageKeys))
	for _, k := range storageKeys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{} // duplicates fan out once

		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			u := c.Resolve(ctx, k, opts)
			outMu.Lock()
			out[k] = u
			outMu.Unlock()
		}(k)
	}
	wg.Wait()
	return out
}

// Invalidate removes every cache entry derived from the storage key, across
// all transform variants. Called when the underlying object changes.
func (c *Cache) Invalidate(storageKey string) int {
	prefix := storageKey + "|"

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Sweep removes expired entries.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Run sweeps the cache periodically until ctx is canceled.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.log.Debug("swept expired urls", "count", n)
			}
		}
	}
}

func compositeKey(storageKey string, opts ports.TransformOptions) string {
	return fmt.Sprintf("%s|%dx%d|q%d|%s", storageKey, opts.Width, opts.Height, opts.Quality, opts.Format)
}
