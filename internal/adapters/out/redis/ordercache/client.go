// Package ordercache is the Redis implementation of ports.OrderCache.
//
// Entries are JSON encoded order.Snapshot values stored under the
// "{order_id}-{user_id}" key with a per-deployment TTL.
package ordercache

import (
	"context"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// Options selects the Redis server backing the cache.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NewClient creates a lazily connecting client. Call Ping to verify the server.
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

func Ping(ctx context.Context, client redis.Cmdable) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errs.NewInfrastructureError("redis", err)
	}
	return nil
}
