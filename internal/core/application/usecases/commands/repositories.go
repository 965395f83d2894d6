// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProcessedJobRepoFactory provides access to the processed job log within a transaction.
	ProcessedJobRepoFactory interface {
		ProcessedJobRepository() ports.ProcessedJobRepository
	}

	// AggregateTracker reports which aggregates a unit of work has written.
	AggregateTracker interface {
		TrackedIDs() []kernel.UUID
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AggregateTracker
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ProcessedJobUoW manages transactions of the task worker dedupe log.
	ProcessedJobUoW interface {
		TxManager
		ProcessedJobRepoFactory
	}

	// ProcessedJobUoWFactory creates new processed job unit of work instances.
	ProcessedJobUoWFactory interface {
		Create() ProcessedJobUoW
	}
)
