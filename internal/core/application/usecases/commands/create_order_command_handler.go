package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/event"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
)

// EventRoute names the exchange and queue OrderCreated events are published to.
type EventRoute struct {
	Exchange string
	Queue    string
}

// CreateOrderCommandHandler persists a new order and then announces it on the broker.
//
// The store commit and the publish are not coupled: if the publish fails the
// order stays committed, the handler returns an error and no notification is
// ever sent for that order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	route      EventRoute
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	route EventRoute,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		route:      route,
		logger:     logger.With("component", "create_order_handler"),
	}
}

// Handle creates the order and returns it as stored.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OwnerID(), cmd.Items(), cmd.TotalPrice(), cmd.Status())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// one OrderCreated per aggregate the unit of work committed
	for _, id := range uow.TrackedIDs() {
		if err = h.publish(ctx, id); err != nil {
			h.logger.ErrorContext(ctx, "order committed but not published",
				"order_id", id.String(), "error", err)
			return nil, fmt.Errorf("publish order created: %w", err)
		}
	}

	h.logger.InfoContext(ctx, "order created", "order_id", created.ID().String(), "owner_id", created.OwnerID())
	return created, nil
}

func (h *CreateOrderCommandHandler) publish(ctx context.Context, id kernel.UUID) error {
	body, err := event.NewOrderCreated(id).Encode()
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, h.route.Exchange, h.route.Queue, body, event.TaskNewOrder)
}
