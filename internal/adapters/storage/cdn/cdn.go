package cdn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"rosterboard/internal/ports"
)

// Provider composes public CDN-style URLs with transform query parameters.
// No network call is made; the CDN resizes on first fetch.
type Provider struct {
	baseURL string
}

func New(baseURL string) *Provider {
	return &Provider{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *Provider) Provider() string { return "cdn" }

func (p *Provider) ResolveURL(ctx context.Context, objectKey string, opts ports.TransformOptions) (string, error) {
	if p.baseURL == "" {
		return "", fmt.Errorf("cdn base url is not configured")
	}
	if objectKey == "" {
		return "", fmt.Errorf("object_key is required")
	}

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Quality > 0 {
		q.Set("q", strconv.Itoa(opts.Quality))
	}
	if opts.Format != "" {
		q.Set("fm", opts.Format)
	}

	u := p.baseURL + "/" + strings.TrimLeft(objectKey, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u, nil
}
