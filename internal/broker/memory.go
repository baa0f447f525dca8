package broker

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue is an in-process Queue used in tests and single-node runs.
type MemoryQueue struct {
	mu    sync.Mutex
	items [][]byte
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Push(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	q.items = append(q.items, cp)
	return nil
}

func (q *MemoryQueue) TryPop(ctx context.Context) ([]byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, nil
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true, nil
}

func (q *MemoryQueue) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryResultStore is an in-process expiring ResultStore for tests.
type MemoryResultStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{items: make(map[string]memoryEntry)}
}

func (s *MemoryResultStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.items[key] = memoryEntry{payload: cp, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryResultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.items, key)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (s *MemoryResultStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
