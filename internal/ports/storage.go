package ports

import (
	"context"
)

// TransformOptions describe the display variant requested for a stored image.
// They are part of the URL cache key, so two option sets that differ in any
// field resolve and cache independently.
type TransformOptions struct {
	Width   int
	Height  int
	Quality int
	Format  string // e.g. "webp", "jpeg"; empty means provider default
}

// StorageProvider resolves display URLs for stored objects.
// Implementations either compose a public CDN-style URL with transform query
// parameters or request a time-limited signed URL from the backing store.
type StorageProvider interface {
	Provider() string

	// ResolveURL returns a URL an external render surface can fetch the
	// object from. An error means the store is unreachable or the object
	// is unknown; callers degrade to a placeholder in that case.
	ResolveURL(ctx context.Context, objectKey string, opts TransformOptions) (string, error)
}
