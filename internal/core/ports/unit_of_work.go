package ports

import (
	"context"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// ProcessedJobRepository returns a ProcessedJobRepository bound to the current transaction.
	ProcessedJobRepository() ProcessedJobRepository

	// TrackedIDs returns the ids of the aggregates written through this unit
	// of work, each once, in first-write order.
	TrackedIDs() []kernel.UUID
}
