package commands

import (
	"context"
	"log/slog"
	"time"
)

// ProcessOrderCommandHandler performs the asynchronous order processing.
// The work itself is simulated by waiting for delay.
//
// Without a dedupe factory every delivered job runs, so a redelivered job
// runs twice. With one, each order id is recorded in the processed job log and
// later jobs for the same id are skipped.
type ProcessOrderCommandHandler struct {
	delay  time.Duration
	dedupe ProcessedJobUoWFactory
	now    func() time.Time
	logger *slog.Logger
}

// NewProcessOrderCommandHandler creates the handler. Pass a nil dedupe factory
// to accept at-least-once processing.
func NewProcessOrderCommandHandler(
	delay time.Duration,
	dedupe ProcessedJobUoWFactory,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		delay:  delay,
		dedupe: dedupe,
		now:    time.Now,
		logger: logger.With("component", "process_order_handler"),
	}
}

// Handle processes one job. It returns ctx.Err() if the context ends first.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if h.dedupe == nil {
		return h.process(ctx, cmd.OrderID())
	}

	uow := h.dedupe.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobs := uow.ProcessedJobRepository()
	seen, err := jobs.Exists(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if seen {
		h.logger.InfoContext(ctx, "skipping duplicate job", "order_id", cmd.OrderID())
		return nil
	}

	if err = h.process(ctx, cmd.OrderID()); err != nil {
		return err
	}

	if err = jobs.Record(ctx, cmd.OrderID(), h.now().UTC()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *ProcessOrderCommandHandler) process(ctx context.Context, orderID string) error {
	h.logger.InfoContext(ctx, "processing order", "order_id", orderID)

	timer := time.NewTimer(h.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	h.logger.InfoContext(ctx, "order processed", "order_id", orderID)
	return nil
}
