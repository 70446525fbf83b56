// Package ratelimit paces outbound media transfers per host so that a
// queue of downloads cannot hammer the asset server.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// PerHost hands each host its own token bucket.
type PerHost struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewPerHost creates a limiter allowing rps requests per second with
// the given burst against each distinct host.
func NewPerHost(rps float64, burst int) *PerHost {
	return &PerHost{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until a transfer against host may start or ctx is done.
func (l *PerHost) Wait(ctx context.Context, host string) error {
	return l.limiter(host).Wait(ctx)
}

// Allow reports whether a transfer against host may start right now.
func (l *PerHost) Allow(host string) bool {
	return l.limiter(host).Allow()
}

func (l *PerHost) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[host] = limiter
	}
	return limiter
}
