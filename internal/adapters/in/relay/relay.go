// Package relay forwards order created events to the task queue.
//
// The relay acknowledges an event only after the job has been handed to the
// task queue. A crash between the two redelivers the event and submits the
// job again. A failed forward is held for the requeue delay before it goes
// back to the broker, so an unavailable task queue is not retried in a loop.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/event"
	"github.com/GregTMJ/Orders-API/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Relay struct {
	tasks        ports.TaskQueue
	requeueDelay time.Duration
	logger       *slog.Logger
}

func NewRelay(tasks ports.TaskQueue, requeueDelay time.Duration, logger *slog.Logger) *Relay {
	return &Relay{
		tasks:        tasks,
		requeueDelay: requeueDelay,
		logger:       logger.With("component", "event_relay"),
	}
}

// HandleDelivery is a rabbitmq.DeliveryHandler.
//
// Events with another task name and events without an order id are dropped.
// A failed forward is requeued for the broker to redeliver once the requeue
// delay has passed or ctx is done, whichever comes first.
func (r *Relay) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logger := r.logger.With("delivery_tag", d.DeliveryTag)

	if name := rabbitmq.TaskName(d); name != event.TaskNewOrder {
		logger.WarnContext(ctx, "Dropping message with unexpected task name", "task_name", name)
		r.ack(ctx, logger, d)
		return
	}

	created, err := event.DecodeOrderCreated(d.Body)
	if err != nil {
		logger.WarnContext(ctx, "Dropping malformed order event", "error", err)
		r.ack(ctx, logger, d)
		return
	}

	if err = r.tasks.Enqueue(ctx, created.OrderID); err != nil {
		logger.ErrorContext(ctx, "Failed to forward order to task queue",
			"order_id", created.OrderID, "error", err, "requeue_in", r.requeueDelay)
		r.wait(ctx)
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.ErrorContext(ctx, "Failed to requeue message", "error", nackErr)
		}
		return
	}

	logger.InfoContext(ctx, "Order forwarded to task queue", "order_id", created.OrderID)
	r.ack(ctx, logger, d)
}

func (r *Relay) ack(ctx context.Context, logger *slog.Logger, d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		logger.ErrorContext(ctx, "Failed to acknowledge message", "error", err)
	}
}

func (r *Relay) wait(ctx context.Context) {
	if r.requeueDelay <= 0 {
		return
	}
	timer := time.NewTimer(r.requeueDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
