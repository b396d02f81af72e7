package debounce

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gymgate:debounce:"

// Redis is a debouncer backed by Redis SET NX with a TTL. Use it when
// several gateway instances share one scanner fleet; the window then holds
// across all of them. Eviction is Redis's problem.
type Redis struct {
	client *redis.Client
	window time.Duration
}

// NewRedis creates a Redis debouncer.
func NewRedis(client *redis.Client, window time.Duration) *Redis {
	return &Redis{client: client, window: window}
}

// ShouldProcess atomically claims the window for the key. The `at` argument
// is ignored; Redis keeps its own clock for the TTL.
func (r *Redis) ShouldProcess(ctx context.Context, key string, _ time.Time) (bool, error) {
	ok, err := r.client.SetNX(ctx, redisKeyPrefix+key, 1, r.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis debounce: %w", err)
	}
	return ok, nil
}
