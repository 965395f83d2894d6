package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
)

// UpdateOrderStatusCommandHandler overwrites the status of an order and, when
// the requesting user already has the order cached, refreshes that entry.
//
// The cache refresh runs after the commit and its failures are only logged:
// the update itself has already succeeded.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      ports.OrderCache
	policy     order.TransitionPolicy
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	cache ports.OrderCache,
	policy order.TransitionPolicy,
	cacheTTL time.Duration,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		policy:     policy,
		cacheTTL:   cacheTTL,
		logger:     logger.With("component", "update_order_status_handler"),
	}
}

// Handle returns the updated order, an errs.ObjectNotFoundError if it does not
// exist, or a validation error if the policy rejects the transition.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	updated, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = updated.ChangeStatus(cmd.Status(), h.policy); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	key := ports.OrderCacheKey(updated.ID().String(), cmd.RequestedBy())
	refreshed, err := h.cache.RefreshIfPresent(ctx, key, updated.Snapshot(), h.cacheTTL)
	if err != nil {
		h.logger.WarnContext(ctx, "cache refresh failed", "key", key, "error", err)
	} else if refreshed {
		h.logger.DebugContext(ctx, "cache refreshed", "key", key)
	}

	return updated, nil
}
