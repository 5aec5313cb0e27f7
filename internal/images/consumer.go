package images

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type destroyer interface {
	Destroy(ctx context.Context, publicID string) error
}

type orphanRecorder interface {
	Create(ctx context.Context, publicID, source string) error
}

type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// Consumer drains the image-deletion subscription and destroys CDN assets.
type Consumer struct {
	cdn          destroyer
	orphans      orphanRecorder
	subscription subscriber
	logg         *logger.Logger
}

// NewConsumer wires the worker-side consumer.
func NewConsumer(cdnClient destroyer, orphans orphanRecorder, subscription subscriber, logg *logger.Logger) (*Consumer, error) {
	if cdnClient == nil {
		return nil, errors.New("cdn client is required")
	}
	if orphans == nil {
		return nil, errors.New("orphan repository is required")
	}
	if subscription == nil {
		return nil, errors.New("image deletion subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		cdn:          cdnClient,
		orphans:      orphans,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes deletion events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.Process(ctx, msg.Data)
		// Always ack: a failed destroy is recorded as an orphan and retried
		// by the cron sweep, not by redelivery.
		msg.Ack()
	})
}

// Process handles one deletion event payload.
func (c *Consumer) Process(ctx context.Context, payload []byte) {
	event, err := DecodeDeletionEvent(payload)
	if err != nil {
		c.logg.Error(ctx, "decode image deletion event", err)
		return
	}
	if event.PublicID == "" {
		c.logg.Warn(c.logg.WithField(ctx, "source", event.Source), "deletion event missing public id")
		return
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"public_id": event.PublicID,
		"source":    event.Source,
	})

	if err := c.cdn.Destroy(ctx, event.PublicID); err != nil {
		c.logg.Error(logCtx, "cdn destroy failed, recording orphan", err)
		if recErr := c.orphans.Create(ctx, event.PublicID, event.Source); recErr != nil {
			c.logg.Error(logCtx, "record asset orphan", recErr)
		}
		return
	}

	c.logg.Info(logCtx, "cdn asset destroyed")
}
