package ports

import (
	"context"
)

// EventPublisher delivers durable notifications to the message broker.
type EventPublisher interface {
	// Publish declares exchange and queue (idempotently), binds them by the
	// queue name and publishes a persistent message whose task_name header is
	// taskName.
	Publish(ctx context.Context, exchange, queue string, payload []byte, taskName string) error
}

// TaskQueue hands order ids to the task worker.
type TaskQueue interface {
	// Enqueue submits a processOrder job for orderID. The job carries no
	// idempotency key, so a redelivered event yields a duplicate job.
	Enqueue(ctx context.Context, orderID string) error
}
