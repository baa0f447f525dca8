package ports

import (
	"context"
	"time"
)

// Queue is the ordered task queue half of the shared broker.
type Queue interface {
	// Push appends a payload to the tail of the queue.
	Push(ctx context.Context, payload []byte) error

	// TryPop removes and returns the head of the queue without blocking.
	// ok is false when the queue is empty.
	TryPop(ctx context.Context) (payload []byte, ok bool, err error)

	// Len returns the current queue depth.
	Len(ctx context.Context) (int64, error)
}

// ResultStore is the expiring key/value half of the shared broker. Entries
// are written once with a TTL and read at most once; TTL expiry is the only
// garbage collector.
type ResultStore interface {
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Get returns the payload for key. ok is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	Delete(ctx context.Context, key string) error
}
