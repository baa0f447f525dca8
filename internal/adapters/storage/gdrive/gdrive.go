package gdrive

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"

	"rosterboard/internal/ports"
)

// Client implements ports.StorageProvider backed by Google Drive.
// ObjectKey is the Drive fileId. Resolution asks Drive for the file's
// content link, which embeds a short-lived access grant for shared files.
type Client struct {
	srv *drive.Service
}

func NewClient(srv *drive.Service) *Client {
	return &Client{srv: srv}
}

func (c *Client) Provider() string { return "gdrive" }

func (c *Client) ResolveURL(ctx context.Context, objectKey string, opts ports.TransformOptions) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("object_key is required")
	}

	f, err := c.srv.Files.Get(objectKey).
		SupportsAllDrives(true).
		Fields("webContentLink", "thumbnailLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gdrive resolve failed: %w", err)
	}

	// Drive thumbnails accept a size hint and are far cheaper for the
	// render surface to fetch than the full original.
	if f.ThumbnailLink != "" && opts.Width > 0 {
		return fmt.Sprintf("%s=s%d", trimSizeSuffix(f.ThumbnailLink), opts.Width), nil
	}
	if f.WebContentLink != "" {
		return f.WebContentLink, nil
	}
	return "", fmt.Errorf("gdrive object %s has no resolvable link", objectKey)
}

// trimSizeSuffix drops Drive's default "=s220" style suffix so a caller can
// append its own size hint.
func trimSizeSuffix(link string) string {
	for i := len(link) - 1; i >= 0; i-- {
		if link[i] == '=' {
			return link[:i]
		}
		if link[i] == '/' {
			break
		}
	}
	return link
}
