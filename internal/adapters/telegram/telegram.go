// Package telegram implements the outbound messaging channel on a Telegram
// bot connection. Only the fleet's owning process constructs one.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"rosterboard/internal/config"
	"rosterboard/internal/pkg/logger"
)

// Channel wraps a telebot connection behind the ports.Channel capability.
type Channel struct {
	bot *tele.Bot
	log *logger.Logger

	// consecutive send failures flip availability off until a send works
	// again, so the dispatcher can fail fast instead of queuing behind a
	// dead connection.
	failures atomic.Int32
}

// maxConsecutiveFailures is the threshold after which the channel reports
// itself unavailable.
const maxConsecutiveFailures = 3

func New(cfg config.Telegram, log *logger.Logger) (*Channel, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	return &Channel{bot: b, log: log.WithComponent("telegram")}, nil
}

// IsAvailable reports whether the channel can currently send.
func (c *Channel) IsAvailable() bool {
	return c.bot != nil && c.failures.Load() < maxConsecutiveFailures
}

// SendImage delivers a JPEG with a caption to the chat identified by
// targetID (a stringified Telegram chat id).
func (c *Channel) SendImage(ctx context.Context, targetID string, image []byte, caption string) error {
	chatID, err := strconv.ParseInt(targetID, 10, 64)
	if err != nil {
		return errors.New("invalid target id: " + targetID)
	}

	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(image)),
		Caption: caption,
	}

	// telebot has no context-aware send; the caller's deadline bounds the
	// surrounding operation instead.
	_, err = c.bot.Send(&tele.Chat{ID: chatID}, photo)
	if err != nil {
		n := c.failures.Add(1)
		c.log.Warn("image send failed",
			"chat_id", chatID, "consecutive_failures", n, "error", err.Error())
		return err
	}

	c.failures.Store(0)
	c.log.Debug("image sent", "chat_id", chatID, "bytes", len(image))
	return nil
}

// Stop shuts the bot connection down. Best-effort and bounded by ctx so a
// hanging long-poll never delays process shutdown.
func (c *Channel) Stop(ctx context.Context) error {
	if c.bot == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		c.bot.Stop()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info("telegram connection stopped")
		return nil
	case <-ctx.Done():
		c.log.Warn("telegram stop cancelled", "error", ctx.Err().Error())
		return ctx.Err()
	}
}
