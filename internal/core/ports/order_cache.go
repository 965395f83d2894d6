package ports

import (
	"context"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
)

// CachedOrder is a cache hit together with the time it has left to live.
type CachedOrder struct {
	Snapshot order.Snapshot
	TTL      time.Duration
}

// OrderCache is a cache-aside store of order snapshots keyed by
// OrderCacheKey. It is never authoritative: callers fall back to the store on
// a miss or on any error.
type OrderCache interface {
	// Lookup returns the cached snapshot and found=true on a hit.
	Lookup(ctx context.Context, key string) (entry CachedOrder, found bool, err error)

	// Store writes snap under key for ttl.
	Store(ctx context.Context, key string, snap order.Snapshot, ttl time.Duration) error

	// RefreshIfPresent overwrites key with snap only if key is currently cached.
	// It is a check-then-set sequence, not an atomic operation.
	RefreshIfPresent(ctx context.Context, key string, snap order.Snapshot, ttl time.Duration) (bool, error)
}

// OrderCacheKey builds the "{order_id}-{user_id}" key of a cached read.
func OrderCacheKey(orderID, userID string) string {
	return orderID + "-" + userID
}
