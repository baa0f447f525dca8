package ports

import "context"

// Channel is the outbound messaging capability. Exactly one process in the
// fleet owns a live channel; every other process holds a nil or unavailable
// one and must route sends through the delivery dispatcher's broker path.
type Channel interface {
	// IsAvailable reports whether the channel can currently send.
	IsAvailable() bool

	// SendImage delivers an image with a caption to the given target.
	SendImage(ctx context.Context, targetID string, image []byte, caption string) error
}
