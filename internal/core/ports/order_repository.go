// Package ports declares the contracts between the order core and its
// infrastructure: the relational store, the cache, the broker and the task queue.
package ports

import (
	"context"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store.
type OrderReader interface {
	// Get returns the order or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderRepository is the persistence contract for order aggregates.
// The store is the only source of truth for orders.
type OrderRepository interface {
	OrderReader

	// Add persists a new order. The order must not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update overwrites the mutable fields of an existing order.
	// There is no concurrency token: the last write wins.
	Update(ctx context.Context, aggregate *order.Order) error
}
