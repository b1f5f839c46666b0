package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rental_ledger/internal/adapters/observability"
)

// Limiter keeps one token bucket per key in process memory.
type Limiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
	idle    time.Duration
}

type bucket struct {
	l    *rate.Limiter
	seen time.Time
}

func New(rps float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{rps: rate.Limit(rps), burst: burst, buckets: map[string]*bucket{}, idle: 10 * time.Minute}
}

func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{l: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
		l.sweep(now)
	}
	b.seen = now
	allowed := b.l.AllowN(now, 1)
	l.mu.Unlock()

	if allowed {
		observability.ObserveLimiter("memory", "allow")
	} else {
		observability.ObserveLimiter("memory", "deny")
	}
	return allowed, nil
}

// RetryAfter is the time one token takes to refill.
func (l *Limiter) RetryAfter() time.Duration {
	if l.rps <= 0 {
		return l.idle
	}
	return time.Duration(float64(time.Second) / float64(l.rps))
}

// sweep drops buckets unused for longer than idle. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.idle {
			delete(l.buckets, k)
		}
	}
}
