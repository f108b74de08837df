package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the shared client behind login sessions, the invoice/email
// job queues and the billing reminder markers. queueWorkers is the number of
// blocking queue consumers; the pool keeps headroom above them so a busy
// BRPOP fleet cannot starve token lookups on the request path.
func NewRedis(redisURL string, queueWorkers int) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = queueWorkers + 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
