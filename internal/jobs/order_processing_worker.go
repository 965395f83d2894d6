package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ProcessOrderHandler is implemented by *commands.ProcessOrderCommandHandler.
type ProcessOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ProcessOrderCommand) error
}

// OrderProcessingWorker runs process_order jobs taken off the task queue.
//
// A job is acknowledged once processed. Malformed jobs and jobs that fail are
// rejected without requeue; the task queue does not retry them. Stop waits up
// to the drain timeout for running jobs.
type OrderProcessingWorker struct {
	loop    *consumerLoop
	handler ProcessOrderHandler
	logger  *slog.Logger
}

func NewOrderProcessingWorker(
	source DeliverySource,
	handler ProcessOrderHandler,
	drainTimeout time.Duration,
	logger *slog.Logger,
) *OrderProcessingWorker {
	logger = logger.With("component", "order_processing_worker")
	return &OrderProcessingWorker{
		loop:    newConsumerLoop(source, drainTimeout, logger),
		handler: handler,
		logger:  logger,
	}
}

func (w *OrderProcessingWorker) Start() error {
	return w.loop.start(w.HandleDelivery)
}

// HandleDelivery is a rabbitmq.DeliveryHandler.
func (w *OrderProcessingWorker) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logger := w.logger.With("delivery_tag", d.DeliveryTag)

	orderID, err := rabbitmq.DecodeTask(d)
	if err != nil {
		logger.WarnContext(ctx, "Rejecting malformed job", "error", err)
		w.settle(ctx, logger, d.Reject(false))
		return
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		logger.WarnContext(ctx, "Rejecting malformed job", "error", err)
		w.settle(ctx, logger, d.Reject(false))
		return
	}

	if err = w.handler.Handle(ctx, cmd); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.WarnContext(ctx, "Job interrupted, requeueing", "order_id", orderID)
			w.settle(ctx, logger, d.Nack(false, true))
			return
		}
		logger.ErrorContext(ctx, "Job failed", "order_id", orderID, "error", err)
		w.settle(ctx, logger, d.Reject(false))
		return
	}

	w.settle(ctx, logger, d.Ack(false))
}

func (w *OrderProcessingWorker) settle(ctx context.Context, logger *slog.Logger, err error) {
	if err != nil {
		logger.ErrorContext(ctx, "Failed to settle delivery", "error", err)
	}
}

// Stop cancels consumption and waits for in-flight jobs, at most drainTimeout.
func (w *OrderProcessingWorker) Stop() {
	w.loop.stop()
}
