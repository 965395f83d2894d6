package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/event"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher publishes durable order events. Every call opens its own channel
// and re-declares the route, so a broker that lost its topology recovers on
// the next publish.
type Publisher struct {
	channels ChannelOpener
	logger   *slog.Logger
}

func NewPublisher(channels ChannelOpener, logger *slog.Logger) *Publisher {
	return &Publisher{
		channels: channels,
		logger:   logger.With("component", "event_publisher"),
	}
}

func (p *Publisher) Publish(ctx context.Context, exchange, queue string, payload []byte, taskName string) error {
	ch, err := p.channels.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = declareRoute(ch, exchange, queue); err != nil {
		return errs.NewInfrastructureError(resource, err)
	}

	err = ch.PublishWithContext(ctx, exchange, queue, false, false, amqp.Publishing{
		Headers: amqp.Table{
			HeaderTaskName:    taskName,
			HeaderContentType: event.ContentTypeJSON,
		},
		ContentType:  event.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return errs.NewInfrastructureError(resource, fmt.Errorf("publish to %s/%s: %w", exchange, queue, err))
	}

	p.logger.DebugContext(ctx, "Event published", "exchange", exchange, "queue", queue, "task_name", taskName)
	return nil
}
