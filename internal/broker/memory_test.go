package broker

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	for _, p := range []string{"first", "second", "third"} {
		if err := q.Push(ctx, []byte(p)); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	if n, _ := q.Len(ctx); n != 3 {
		t.Errorf("expected depth 3, got %d", n)
	}

	for _, want := range []string{"first", "second", "third"} {
		payload, ok, err := q.TryPop(ctx)
		if err != nil || !ok {
			t.Fatalf("expected a queued payload, ok=%v err=%v", ok, err)
		}
		if string(payload) != want {
			t.Errorf("expected %q, got %q", want, payload)
		}
	}

	if _, ok, _ := q.TryPop(ctx); ok {
		t.Error("expected empty queue after draining")
	}
}

func TestMemoryQueueCopiesPayload(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	buf := []byte("payload")
	_ = q.Push(ctx, buf)
	buf[0] = 'X'

	got, _, _ := q.TryPop(ctx)
	if string(got) != "payload" {
		t.Errorf("expected queue to hold its own copy, got %q", got)
	}
}

func TestMemoryResultStoreTTL(t *testing.T) {
	s := NewMemoryResultStore()
	ctx := context.Background()

	if err := s.Set(ctx, "t-1", []byte("ok"), 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	if payload, ok, _ := s.Get(ctx, "t-1"); !ok || !bytes.Equal(payload, []byte("ok")) {
		t.Fatalf("expected live entry, ok=%v payload=%q", ok, payload)
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok, _ := s.Get(ctx, "t-1"); ok {
		t.Error("expected entry to expire")
	}
}

func TestMemoryResultStoreDelete(t *testing.T) {
	s := NewMemoryResultStore()
	ctx := context.Background()

	_ = s.Set(ctx, "t-1", []byte("ok"), time.Minute)
	if err := s.Delete(ctx, "t-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A deleted slot reads as absent, the same as "still pending".
	if _, ok, _ := s.Get(ctx, "t-1"); ok {
		t.Error("expected deleted entry to be gone")
	}
	if err := s.Delete(ctx, "t-1"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}
