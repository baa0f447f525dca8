package urlcache

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
)

// countingProvider is a StorageProvider that counts resolution calls.
type countingProvider struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (p *countingProvider) Provider() string { return "counting" }

func (p *countingProvider) ResolveURL(ctx context.Context, key string, opts ports.TransformOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return "", fmt.Errorf("storage down")
	}
	return "https://cdn.example/" + key, nil
}

func (p *countingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestCache(p ports.StorageProvider, ttl time.Duration) *Cache {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
	return NewCache(p, ttl, log)
}

func TestResolveCachesWithinTTL(t *testing.T) {
	p := &countingProvider{}
	c := newTestCache(p, time.Hour)

	opts := ports.TransformOptions{Width: 128, Height: 128}
	first := c.Resolve(context.Background(), "avatars/p1.jpg", opts)
	second := c.Resolve(context.Background(), "avatars/p1.jpg", opts)

	if first != second || first == "" {
		t.Errorf("expected identical cached url, got %q and %q", first, second)
	}
	if p.count() != 1 {
		t.Errorf("expected exactly 1 storage call, got %d", p.count())
	}
}

func TestResolveDifferentOptionsResolveSeparately(t *testing.T) {
	p := &countingProvider{}
	c := newTestCache(p, time.Hour)

	c.Resolve(context.Background(), "avatars/p1.jpg", ports.TransformOptions{Width: 128})
	c.Resolve(context.Background(), "avatars/p1.jpg", ports.TransformOptions{Width: 256})

	if p.count() != 2 {
		t.Errorf("expected 2 storage calls for 2 variants, got %d", p.count())
	}
}

func TestResolveStorageFailureReturnsEmpty(t *testing.T) {
	p := &countingProvider{fail: true}
	c := newTestCache(p, time.Hour)

	if got := c.Resolve(context.Background(), "avatars/p1.jpg", ports.TransformOptions{}); got != "" {
		t.Errorf("expected empty url on storage failure, got %q", got)
	}
}

func TestResolveBatch(t *testing.T) {
	p := &countingProvider{}
	c := newTestCache(p, time.Hour)

	keys := []string{"a.jpg", "b.jpg", "c.jpg", "a.jpg"}
	got := c.ResolveBatch(context.Background(), keys, ports.TransformOptions{Width: 64})

	if len(got) != 3 {
		t.Errorf("expected 3 entries, got %d", len(got))
	}
	if p.count() > 3 {
		t.Errorf("expected at most 3 storage calls, got %d", p.count())
	}
	for _, k := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if got[k] != "https://cdn.example/"+k {
			t.Errorf("unexpected url for %s: %q", k, got[k])
		}
	}
}

func TestInvalidateRemovesAllVariants(t *testing.T) {
	p := &countingProvider{}
	c := newTestCache(p, time.Hour)

	c.Resolve(context.Background(), "logos/c1.png", ports.TransformOptions{Width: 64})
	c.Resolve(context.Background(), "logos/c1.png", ports.TransformOptions{Width: 128})
	c.Resolve(context.Background(), "logos/other.png", ports.TransformOptions{Width: 64})

	if n := c.Invalidate("logos/c1.png"); n != 2 {
		t.Errorf("expected 2 variants invalidated, got %d", n)
	}

	// Re-resolving the invalidated key hits storage again.
	before := p.count()
	c.Resolve(context.Background(), "logos/c1.png", ports.TransformOptions{Width: 64})
	if p.count() != before+1 {
		t.Error("expected a fresh storage call after invalidation")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	p := &countingProvider{}
	c := newTestCache(p, time.Hour)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Resolve(context.Background(), "a.jpg", ports.TransformOptions{})

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	if n := c.Sweep(); n != 1 {
		t.Errorf("expected 1 entry swept, got %d", n)
	}
}
