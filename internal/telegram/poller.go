package telegram

import (
	"context"
	"time"

	"aibot-api/internal/logger"

	"github.com/sirupsen/logrus"
)

// Handler consumes one inbound update. Implementations must not panic and
// must swallow their own errors; the poller only schedules them.
type Handler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// Poller drives the long-polling loop, dispatching each update on its own
// goroutine. Ordering across updates is therefore not guaranteed, including
// for two quick messages from the same user.
type Poller struct {
	client  *Client
	handler Handler
	timeout time.Duration
}

func NewPoller(client *Client, handler Handler) *Poller {
	return &Poller{
		client:  client,
		handler: handler,
		timeout: 30 * time.Second,
	}
}

func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	logger.LogEvent(logrus.InfoLevel, "Polling loop started", logrus.Fields{})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.LogEvent(logrus.ErrorLevel, "getUpdates failed", logrus.Fields{
				"error": err.Error(),
			})
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go p.handler.HandleUpdate(ctx, update)
		}
	}
}
