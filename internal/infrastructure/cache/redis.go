package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultDialTimeout = 5 * time.Second

func OpenRedis(addr string, db int) (*redis.Client, error) {
	return OpenRedisWithTimeout(addr, db, DefaultDialTimeout)
}

// OpenRedisWithTimeout pings once within timeout; the client is closed again
// if the ping fails.
func OpenRedisWithTimeout(addr string, db int, timeout time.Duration) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db, DialTimeout: timeout})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return r, nil
}

// Ping adapts a client to the health check signature.
func Ping(r *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error { return r.Ping(ctx).Err() }
}
