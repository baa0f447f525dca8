package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"rosterboard/internal/broker"
	"rosterboard/internal/pkg/logger"
)

func b64JPEG(size int) string {
	return base64.StdEncoding.EncodeToString(jpegPayload(size))
}

// fakeChannel is a test Channel with a switchable availability flag.
type fakeChannel struct {
	mu        sync.Mutex
	available bool
	fail      bool
	sent      []string // target ids in send order
}

func (c *fakeChannel) IsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

func (c *fakeChannel) SendImage(ctx context.Context, targetID string, image []byte, caption string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return context.DeadlineExceeded
	}
	c.sent = append(c.sent, targetID)
	return nil
}

func (c *fakeChannel) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func testLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
}

func TestDeliverOwnerDirect(t *testing.T) {
	ch := &fakeChannel{available: true}
	q := broker.NewMemoryQueue()

	d := NewDispatcher(Config{
		Channel: ch,
		Queue:   q,
		Results: broker.NewMemoryResultStore(),
		Log:     testLogger(),
	})

	ok := d.Deliver(context.Background(), "chat-1", jpegPayload(2<<10), "roster")

	if !ok {
		t.Error("expected direct delivery to succeed")
	}
	if ch.sentCount() != 1 {
		t.Errorf("expected 1 send, got %d", ch.sentCount())
	}
	if n, _ := q.Len(context.Background()); n != 0 {
		t.Errorf("expected no broker interaction on direct path, queue depth %d", n)
	}
}

func TestDeliverOwnerChannelUnavailable(t *testing.T) {
	ch := &fakeChannel{available: false}
	q := broker.NewMemoryQueue()

	d := NewDispatcher(Config{
		Channel: ch,
		Queue:   q,
		Results: broker.NewMemoryResultStore(),
		Log:     testLogger(),
	})

	start := time.Now()
	ok := d.Deliver(context.Background(), "chat-1", jpegPayload(2<<10), "roster")

	if ok {
		t.Error("expected delivery to fail with unavailable channel")
	}
	if time.Since(start) > time.Second {
		t.Error("expected immediate failure, not a wait")
	}
	if ch.sentCount() != 0 {
		t.Error("expected no send attempt")
	}
	if n, _ := q.Len(context.Background()); n != 0 {
		t.Errorf("expected no broker interaction, queue depth %d", n)
	}
}

func TestDeliverNonOwnerTimesOut(t *testing.T) {
	// No consumer running, so no result is ever posted.
	d := NewDispatcher(Config{
		Queue:        broker.NewMemoryQueue(),
		Results:      broker.NewMemoryResultStore(),
		Log:          testLogger(),
		PollInterval: 10 * time.Millisecond,
		MaxWait:      200 * time.Millisecond,
	})

	start := time.Now()
	ok := d.Deliver(context.Background(), "chat-1", jpegPayload(2<<10), "roster")
	elapsed := time.Since(start)

	if ok {
		t.Error("expected delivery to report failure")
	}
	if elapsed < 200*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Errorf("expected failure near the 200ms budget, took %s", elapsed)
	}
}

func TestDeliverNonOwnerRoundTrip(t *testing.T) {
	ch := &fakeChannel{available: true}
	q := broker.NewMemoryQueue()
	rs := broker.NewMemoryResultStore()
	log := testLogger()

	consumer := NewConsumer(ConsumerConfig{
		Channel:  ch,
		Queue:    q,
		Results:  rs,
		Log:      log,
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = consumer.Run(ctx) }()

	d := NewDispatcher(Config{
		Queue:        q,
		Results:      rs,
		Log:          log,
		PollInterval: 10 * time.Millisecond,
		MaxWait:      5 * time.Second,
	})

	if ok := d.Deliver(context.Background(), "chat-7", jpegPayload(2<<10), "roster"); !ok {
		t.Fatal("expected broker round trip to succeed")
	}
	if ch.sentCount() != 1 {
		t.Errorf("expected 1 send by the consumer, got %d", ch.sentCount())
	}
}

func TestDeliverNonOwnerQueueFull(t *testing.T) {
	q := broker.NewMemoryQueue()
	for i := 0; i < 5; i++ {
		_ = q.Push(context.Background(), []byte("{}"))
	}

	d := NewDispatcher(Config{
		Queue:         q,
		Results:       broker.NewMemoryResultStore(),
		Log:           testLogger(),
		MaxQueueDepth: 5,
		PollInterval:  10 * time.Millisecond,
		MaxWait:       100 * time.Millisecond,
	})

	if ok := d.Deliver(context.Background(), "chat-1", jpegPayload(2<<10), ""); ok {
		t.Error("expected delivery to be refused when the queue is full")
	}
	if n, _ := q.Len(context.Background()); n != 5 {
		t.Errorf("expected queue depth to stay at 5, got %d", n)
	}
}

func TestConsumerWritesResultForInvalidPayload(t *testing.T) {
	ch := &fakeChannel{available: true}
	q := broker.NewMemoryQueue()
	rs := broker.NewMemoryResultStore()

	c := NewConsumer(ConsumerConfig{
		Channel: ch,
		Queue:   q,
		Results: rs,
		Log:     testLogger(),
	})

	task := Task{ID: "t-1", TargetID: "chat-1", ImageB64: "aGVsbG8="} // "hello", not a JPEG
	payload, _ := json.Marshal(task)
	c.processTask(context.Background(), payload)

	raw, ok, _ := rs.Get(context.Background(), "t-1")
	if !ok {
		t.Fatal("expected a result to be written")
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("result decode: %v", err)
	}
	if res.Success {
		t.Error("expected failure result")
	}
	if res.Error == "" {
		t.Error("expected a descriptive error")
	}
	if ch.sentCount() != 0 {
		t.Error("rejected payload must never reach the channel")
	}
}

func TestConsumerFIFO(t *testing.T) {
	ch := &fakeChannel{available: true}
	q := broker.NewMemoryQueue()
	rs := broker.NewMemoryResultStore()

	c := NewConsumer(ConsumerConfig{
		Channel: ch,
		Queue:   q,
		Results: rs,
		Log:     testLogger(),
	})

	for _, id := range []string{"first", "second", "third"} {
		task := Task{ID: id, TargetID: id, ImageB64: b64JPEG(2 << 10)}
		payload, _ := json.Marshal(task)
		_ = q.Push(context.Background(), payload)
	}

	for i := 0; i < 3; i++ {
		payload, ok, _ := q.TryPop(context.Background())
		if !ok {
			t.Fatal("expected a queued task")
		}
		c.processTask(context.Background(), payload)
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if ch.sent[i] != id {
			t.Errorf("expected send order %v, got %v", want, ch.sent)
			break
		}
	}
}

func TestResultReadOnce(t *testing.T) {
	ch := &fakeChannel{available: true}
	q := broker.NewMemoryQueue()
	rs := broker.NewMemoryResultStore()
	log := testLogger()

	consumer := NewConsumer(ConsumerConfig{
		Channel: ch, Queue: q, Results: rs, Log: log,
	})

	task := Task{ID: "t-once", TargetID: "chat-1", ImageB64: b64JPEG(2 << 10)}
	payload, _ := json.Marshal(task)
	consumer.processTask(context.Background(), payload)

	d := NewDispatcher(Config{
		Queue:        q,
		Results:      rs,
		Log:          log,
		PollInterval: 10 * time.Millisecond,
		MaxWait:      time.Second,
	})

	if ok := d.awaitResult(context.Background(), "t-once"); !ok {
		t.Fatal("expected first read to find the success result")
	}

	// The slot was deleted on first read; a second reader sees nothing.
	if _, ok, _ := rs.Get(context.Background(), "t-once"); ok {
		t.Error("expected result slot to be deleted after first read")
	}
}
