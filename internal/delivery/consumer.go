package delivery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
)

// Consumer is the single task consumer running on the owning process. Tasks
// are handled strictly one at a time in FIFO order, so a slow send delays
// subsequent deliveries.
type Consumer struct {
	channel ports.Channel
	queue   ports.Queue
	results ports.ResultStore
	log     *logger.Logger

	interval  time.Duration
	resultTTL time.Duration
}

type ConsumerConfig struct {
	Channel ports.Channel
	Queue   ports.Queue
	Results ports.ResultStore
	Log     *logger.Logger

	Interval  time.Duration
	ResultTTL time.Duration
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault()
	}
	c := &Consumer{
		channel:   cfg.Channel,
		queue:     cfg.Queue,
		results:   cfg.Results,
		log:       log.WithComponent("delivery-consumer"),
		interval:  cfg.Interval,
		resultTTL: cfg.ResultTTL,
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	if c.resultTTL <= 0 {
		c.resultTTL = DefaultResultTTL
	}
	return c
}

// Run polls the queue until ctx is canceled. Started once at process start,
// only on the owning process.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("delivery consumer started", "interval", c.interval.String())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("delivery consumer stopping")
			return ctx.Err()
		case <-ticker.C:
			payload, ok, err := c.queue.TryPop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.log.Info("delivery consumer stopping")
					return ctx.Err()
				}
				c.log.Warn("queue pop failed, retrying", "error", err.Error())
				continue
			}
			if !ok {
				continue
			}
			c.processTask(ctx, payload)
		}
	}
}

// processTask decodes, validates and sends one task, and always writes a
// result with a short TTL regardless of outcome.
func (c *Consumer) processTask(ctx context.Context, payload []byte) {
	var task Task
	if err := json.Unmarshal(payload, &task); err != nil {
		c.log.Error("task decode failed, dropping", "error", err.Error())
		return
	}

	log := c.log.WithTaskID(task.ID)
	start := time.Now()

	var sendErr string
	success := false

	image, err := base64.StdEncoding.DecodeString(task.ImageB64)
	if err != nil {
		sendErr = "image decode failed: " + err.Error()
	} else if err := ValidatePayload(image); err != nil {
		sendErr = err.Error()
	} else if !c.channel.IsAvailable() {
		sendErr = "channel unavailable"
	} else if err := c.channel.SendImage(ctx, task.TargetID, image, task.Caption); err != nil {
		sendErr = err.Error()
	} else {
		success = true
	}

	if success {
		log.Info("task delivered",
			"target_id", task.TargetID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		log.Warn("task failed",
			"target_id", task.TargetID,
			"error", sendErr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	c.writeResult(ctx, Result{
		TaskID:      task.ID,
		Success:     success,
		Error:       sendErr,
		CompletedAt: time.Now().UTC(),
	})
}

func (c *Consumer) writeResult(ctx context.Context, res Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		c.log.Error("result encode failed", "task_id", res.TaskID, "error", err.Error())
		return
	}
	if err := c.results.Set(ctx, res.TaskID, payload, c.resultTTL); err != nil {
		c.log.Warn("result write failed", "task_id", res.TaskID, "error", err.Error())
	}
}
