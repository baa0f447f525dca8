package localfs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rosterboard/internal/ports"
)

// Provider implements ports.StorageProvider over a local directory that a
// static file server exposes at baseURL. Used for development fleets.
type Provider struct {
	root    string
	baseURL string
}

func New(root, baseURL string) *Provider {
	return &Provider{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Provider) Provider() string { return "localfs" }

func (l *Provider) ResolveURL(ctx context.Context, objectKey string, opts ports.TransformOptions) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("object_key is required")
	}

	p := filepath.Join(l.root, filepath.FromSlash(objectKey))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("object %s: %w", objectKey, err)
	}

	// Transform params are carried for parity with the CDN provider even
	// though the static server ignores them.
	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}

	u := l.baseURL + "/" + strings.TrimLeft(objectKey, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u, nil
}
