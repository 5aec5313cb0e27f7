package images

import (
	"context"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

// DeletionQueue schedules best-effort CDN asset removals.
type DeletionQueue interface {
	QueueDeletion(ctx context.Context, publicID, source string)
	QueueDeletionByURL(ctx context.Context, url, source string)
}

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Publisher pushes deletion events onto the image-deletion topic.
type Publisher struct {
	topic messagePublisher
	logg  *logger.Logger
}

// NewPublisher wires a deletion publisher over the configured topic.
func NewPublisher(topic messagePublisher, logg *logger.Logger) (*Publisher, error) {
	if topic == nil {
		return nil, errors.New("image deletion topic is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Publisher{topic: topic, logg: logg}, nil
}

// QueueDeletion publishes a deletion event for the given public id. Failures
// are logged and swallowed so the caller's DB write stays committed.
func (p *Publisher) QueueDeletion(ctx context.Context, publicID, source string) {
	if publicID == "" {
		return
	}
	event := DeletionEvent{PublicID: publicID, Source: source}
	payload, err := event.Encode()
	if err != nil {
		p.logg.Error(ctx, "encode image deletion event", err)
		return
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: payload})
	if _, err := result.Get(ctx); err != nil {
		logCtx := p.logg.WithFields(ctx, map[string]any{
			"public_id": publicID,
			"source":    source,
		})
		p.logg.Error(logCtx, "publish image deletion event", fmt.Errorf("publish: %w", err))
	}
}

// QueueDeletionByURL resolves a delivery URL to its public id first. URLs that
// don't carry a version marker are skipped silently.
func (p *Publisher) QueueDeletionByURL(ctx context.Context, url, source string) {
	publicID := cdn.PublicIDFromURL(url)
	if publicID == "" {
		return
	}
	p.QueueDeletion(ctx, publicID, source)
}
