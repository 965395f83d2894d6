package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/event"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.TaskQueue = (*TaskQueue)(nil)

// TaskQueue submits process_order jobs to a durable queue on the default
// exchange. The body of a job is the bare order id.
type TaskQueue struct {
	channels ChannelOpener
	queue    string
	logger   *slog.Logger
}

func NewTaskQueue(channels ChannelOpener, queue string, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		channels: channels,
		queue:    queue,
		logger:   logger.With("component", "task_queue"),
	}
}

// Queue is the name jobs are published to and consumed from.
func (q *TaskQueue) Queue() string {
	return q.queue
}

func (q *TaskQueue) Enqueue(ctx context.Context, orderID string) error {
	ch, err := q.channels.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = declareRoute(ch, "", q.queue); err != nil {
		return errs.NewInfrastructureError(resource, err)
	}

	err = ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		Headers:      amqp.Table{HeaderTaskName: event.TaskProcessOrder},
		ContentType:  "text/plain",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         []byte(orderID),
	})
	if err != nil {
		return errs.NewInfrastructureError(resource, fmt.Errorf("enqueue to %s: %w", q.queue, err))
	}

	q.logger.DebugContext(ctx, "Job enqueued", "queue", q.queue, "order_id", orderID)
	return nil
}

// DecodeTask extracts the order id of a process_order job.
func DecodeTask(d amqp.Delivery) (string, error) {
	if name := TaskName(d); name != event.TaskProcessOrder {
		return "", errs.NewValueIsInvalidErrorWithCause(HeaderTaskName,
			fmt.Errorf("unexpected task %q", name))
	}

	orderID := strings.TrimSpace(string(d.Body))
	if orderID == "" {
		return "", errs.NewValueIsRequiredError("order_id")
	}
	return orderID, nil
}
