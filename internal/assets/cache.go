// Package assets lazily loads and TTL-caches small static binary assets
// (fonts, background art) as base64 strings ready for embedding in markup.
// The cache is process-local; duplicate reads across the fleet are accepted.
package assets

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"time"

	"rosterboard/internal/pkg/logger"
)

// DefaultTTL is how long a loaded asset stays cached before the next call
// re-reads it from disk.
const DefaultTTL = time.Hour

// defaultNames is the asset set warmed before the first render.
var defaultNames = []string{
	"fonts/inter-regular.woff2",
	"fonts/inter-bold.woff2",
	"img/pitch-bg.jpg",
}

type entry struct {
	data     string
	loadedAt time.Time
}

// Cache is a TTL cache of embeddable encoded assets.
type Cache struct {
	dir string
	ttl time.Duration
	log *logger.Logger

	mu     sync.Mutex
	items  map[string]entry
	warmed bool

	// seams for tests
	readFile func(string) ([]byte, error)
	now      func() time.Time
}

func NewCache(dir string, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		dir:      dir,
		ttl:      ttl,
		log:      log.WithComponent("assets"),
		items:    make(map[string]entry),
		readFile: os.ReadFile,
		now:      time.Now,
	}
}

// Load returns the base64-encoded content of the named asset. A missing or
// unreadable file is logged once and negative-cached as "", which callers
// treat as "omit from output". Load never fails.
func (c *Cache) Load(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[name]; ok && c.now().Sub(e.loadedAt) < c.ttl {
		return e.data
	}

	encoded := ""
	raw, err := c.readFile(filepath.Join(c.dir, filepath.FromSlash(name)))
	if err != nil {
		c.log.Warn("asset unavailable, caching empty value", "name", name, "error", err.Error())
	} else {
		encoded = base64.StdEncoding.EncodeToString(raw)
	}

	c.items[name] = entry{data: encoded, loadedAt: c.now()}
	return encoded
}

// Warm loads the default asset set once per process. Subsequent calls are
// no-ops until Cleanup resets the cache.
func (c *Cache) Warm() {
	c.mu.Lock()
	if c.warmed {
		c.mu.Unlock()
		return
	}
	c.warmed = true
	c.mu.Unlock()

	for _, name := range defaultNames {
		c.Load(name)
	}
	c.log.Debug("asset cache warmed", "assets", len(defaultNames))
}

// Sweep removes entries older than the TTL so the next Load re-reads.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := c.now().Add(-c.ttl)
	for name, e := range c.items {
		if e.loadedAt.Before(cutoff) {
			delete(c.items, name)
			removed++
		}
	}
	return removed
}

// Run sweeps the cache periodically until ctx is canceled.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.log.Debug("swept expired assets", "count", n)
			}
		}
	}
}

// Cleanup clears everything and resets the warm flag. Used on shutdown.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
	c.warmed = false
}
