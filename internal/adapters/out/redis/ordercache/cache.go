package ordercache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/core/ports"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const resource = "redis"

var _ ports.OrderCache = (*Cache)(nil)

type Cache struct {
	client redis.Cmdable
	logger *slog.Logger
}

func NewCache(client redis.Cmdable, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With("component", "order_cache"),
	}
}

// Lookup reads the remaining TTL and the value in a single round trip.
// An undecodable value is reported as a SerializationError.
func (c *Cache) Lookup(ctx context.Context, key string) (ports.CachedOrder, bool, error) {
	var (
		ttlCmd *redis.DurationCmd
		getCmd *redis.StringCmd
	)

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		ttlCmd = pipe.TTL(ctx, key)
		getCmd = pipe.Get(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return ports.CachedOrder{}, false, errs.NewInfrastructureError(resource, err)
	}

	raw, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.CachedOrder{}, false, nil
	}
	if err != nil {
		return ports.CachedOrder{}, false, errs.NewInfrastructureError(resource, err)
	}

	var snap order.Snapshot
	if err = json.Unmarshal(raw, &snap); err != nil {
		return ports.CachedOrder{}, false, errs.NewSerializationError(key, err)
	}

	// -1 and -2 come back as negative durations
	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}

	return ports.CachedOrder{Snapshot: snap, TTL: ttl}, true, nil
}

func (c *Cache) Store(ctx context.Context, key string, snap order.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return errs.NewSerializationError(key, err)
	}

	if err = c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return errs.NewInfrastructureError(resource, err)
	}

	c.logger.DebugContext(ctx, "order cached", "key", key, "ttl", ttl)
	return nil
}

// RefreshIfPresent is EXISTS followed by SET. A read that populates key
// between the two commands is overwritten; one that lands after SET may leave
// an older snapshot until the TTL runs out.
func (c *Cache) RefreshIfPresent(ctx context.Context, key string, snap order.Snapshot, ttl time.Duration) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errs.NewInfrastructureError(resource, err)
	}
	if n == 0 {
		return false, nil
	}

	if err = c.Store(ctx, key, snap, ttl); err != nil {
		return false, err
	}
	return true, nil
}
