package ports

import (
	"context"
	"time"
)

// ProcessedJobRepository records which order ids the task worker has already
// handled. It is only used when job dedupe is enabled.
type ProcessedJobRepository interface {
	// Exists reports whether orderID was recorded before.
	Exists(ctx context.Context, orderID string) (bool, error)

	// Record stores orderID as processed at processedAt. Recording an id twice is a no-op.
	Record(ctx context.Context, orderID string, processedAt time.Time) error

	// DeleteOlderThan purges records processed before cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
