package redisad

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rental_ledger/internal/adapters/observability"
)

// Limiter is a fixed-window request counter shared by every API instance
// pointing at the same redis.
type Limiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func New(addr, pass string, db int, limit int, window time.Duration) *Limiter {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), limit, window)
}

func NewWithClient(c *redis.Client, limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{c: c, limit: int64(limit), window: window, prefix: "intake:rl:"}
}

// Allow counts one request for key in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	k := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	pipe := l.c.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.ObserveLimiter("redis", "error")
		return false, err
	}
	if incr.Val() > l.limit {
		observability.ObserveLimiter("redis", "deny")
		return false, nil
	}
	observability.ObserveLimiter("redis", "allow")
	return true, nil
}

// RetryAfter is the time left in the current window.
func (l *Limiter) RetryAfter() time.Duration {
	return l.window - time.Duration(time.Now().UnixNano()%int64(l.window))
}

func (l *Limiter) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *Limiter) Close() error { return l.c.Close() }
