package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
)

// GetOrderQueryHandler implements cache-aside reads of a single order.
//
// Cache failures never fail the read: a lookup error is treated as a miss and
// a store error leaves the entry uncached.
type GetOrderQueryHandler struct {
	reader   ports.OrderReader
	cache    ports.OrderCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewGetOrderQueryHandler(
	reader ports.OrderReader,
	cache ports.OrderCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		reader:   reader,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "get_order_handler"),
	}
}

// Handle returns the order snapshot or an errs.ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	key := ports.OrderCacheKey(query.OrderID().String(), query.RequestedBy())

	entry, found, err := h.cache.Lookup(ctx, key)
	switch {
	case err != nil:
		h.logger.WarnContext(ctx, "cache lookup failed, reading store", "key", key, "error", err)
	case found:
		h.logger.DebugContext(ctx, "cache hit", "key", key, "ttl", entry.TTL)
		return entry.Snapshot, nil
	}

	stored, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return order.Snapshot{}, err
	}

	snap := stored.Snapshot()
	if err = h.cache.Store(ctx, key, snap, h.cacheTTL); err != nil {
		h.logger.WarnContext(ctx, "order not cached", "key", key, "error", err)
	}

	return snap, nil
}
