// Package delivery routes "send this image" requests from any fleet process
// to the single process that owns the outbound messaging channel, using the
// shared broker for cross-process correlation.
package delivery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
)

const (
	// DefaultPollInterval is how often a non-owning process checks the
	// result slot for its task.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultMaxWait bounds how long a non-owning process waits for a
	// result before reporting failure. The task may still complete later;
	// that result simply goes unread and expires.
	DefaultMaxWait = 45 * time.Second
	// DefaultResultTTL is how long a written result stays readable.
	DefaultResultTTL = 60 * time.Second
	// DefaultMaxQueueDepth refuses new tasks once the owner has this many
	// pending, so a stalled owner cannot grow the queue without bound.
	DefaultMaxQueueDepth = 1000
)

// Dispatcher implements the deliver operation for both the owning and the
// non-owning processes. Ownership is a static designation fixed at process
// start: the owning process holds a non-nil Channel.
type Dispatcher struct {
	channel ports.Channel // nil on non-owning processes
	queue   ports.Queue
	results ports.ResultStore
	log     *logger.Logger

	pollInterval  time.Duration
	maxWait       time.Duration
	resultTTL     time.Duration
	maxQueueDepth int64
}

type Config struct {
	// Channel is non-nil only on the owning process.
	Channel ports.Channel
	Queue   ports.Queue
	Results ports.ResultStore
	Log     *logger.Logger

	PollInterval  time.Duration
	MaxWait       time.Duration
	ResultTTL     time.Duration
	MaxQueueDepth int64
}

func NewDispatcher(cfg Config) *Dispatcher {
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault()
	}
	d := &Dispatcher{
		channel:       cfg.Channel,
		queue:         cfg.Queue,
		results:       cfg.Results,
		log:           log.WithComponent("dispatcher"),
		pollInterval:  cfg.PollInterval,
		maxWait:       cfg.MaxWait,
		resultTTL:     cfg.ResultTTL,
		maxQueueDepth: cfg.MaxQueueDepth,
	}
	if d.pollInterval <= 0 {
		d.pollInterval = DefaultPollInterval
	}
	if d.maxWait <= 0 {
		d.maxWait = DefaultMaxWait
	}
	if d.resultTTL <= 0 {
		d.resultTTL = DefaultResultTTL
	}
	if d.maxQueueDepth <= 0 {
		d.maxQueueDepth = DefaultMaxQueueDepth
	}
	return d
}

// Deliver sends the image to the target. On the owning process it calls the
// channel directly; on any other process it enqueues a task and polls for
// the consumer's result. It never blocks past the configured maximum wait.
func (d *Dispatcher) Deliver(ctx context.Context, targetID string, image []byte, caption string) bool {
	if d.channel != nil {
		return d.deliverDirect(ctx, targetID, image, caption)
	}
	return d.deliverViaBroker(ctx, targetID, image, caption)
}

func (d *Dispatcher) deliverDirect(ctx context.Context, targetID string, image []byte, caption string) bool {
	if !d.channel.IsAvailable() {
		d.log.Warn("channel unavailable, refusing direct delivery", "target_id", targetID)
		return false
	}
	if err := d.channel.SendImage(ctx, targetID, image, caption); err != nil {
		d.log.Warn("direct delivery failed", "target_id", targetID, "error", err.Error())
		return false
	}
	return true
}

func (d *Dispatcher) deliverViaBroker(ctx context.Context, targetID string, image []byte, caption string) bool {
	taskID := uuid.NewString()
	log := d.log.WithTaskID(taskID)

	if depth, err := d.queue.Len(ctx); err == nil && depth >= d.maxQueueDepth {
		log.Warn("delivery queue full, refusing task", "depth", depth)
		return false
	}

	task := Task{
		ID:        taskID,
		TargetID:  targetID,
		ImageB64:  base64.StdEncoding.EncodeToString(image),
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(task)
	if err != nil {
		log.Error("task encode failed", "error", err.Error())
		return false
	}

	if err := d.queue.Push(ctx, payload); err != nil {
		log.Warn("task enqueue failed", "error", err.Error())
		return false
	}
	log.Debug("task enqueued, polling for result", "target_id", targetID)

	return d.awaitResult(ctx, taskID)
}

// awaitResult polls the per-task result slot until it appears or the wait
// budget runs out. A found result is deleted before its flag is returned, so
// no other reader can observe it (read-once).
func (d *Dispatcher) awaitResult(ctx context.Context, taskID string) bool {
	log := d.log.WithTaskID(taskID)

	deadline := time.NewTimer(d.maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Warn("delivery wait canceled", "error", ctx.Err().Error())
			return false
		case <-deadline.C:
			log.Warn("delivery wait exhausted, abandoning task", "max_wait", d.maxWait.String())
			return false
		case <-ticker.C:
			payload, ok, err := d.results.Get(ctx, taskID)
			if err != nil {
				log.Warn("result poll failed", "error", err.Error())
				continue
			}
			if !ok {
				continue
			}

			_ = d.results.Delete(ctx, taskID)

			var res Result
			if err := json.Unmarshal(payload, &res); err != nil {
				log.Error("result decode failed", "error", err.Error())
				return false
			}
			if !res.Success {
				log.Warn("delivery reported failure", "error", res.Error)
			}
			return res.Success
		}
	}
}
