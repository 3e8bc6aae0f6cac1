package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors hands out one token bucket per client key.
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func NewVisitors(rps float64, burst int, ttl time.Duration) *Visitors {
	return &Visitors{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (v *Visitors) Get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(v.limit, v.burst)
		v.visitors[key] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Allow reports whether the client identified by key may proceed now.
func (v *Visitors) Allow(key string) bool {
	return v.Get(key).Allow()
}

// Cleanup forgets visitors not seen for longer than the ttl.
func (v *Visitors) Cleanup() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for key, c := range v.visitors {
		if v.now().Sub(c.lastSeen) > v.ttl {
			delete(v.visitors, key)
		}
	}
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}

// StartCleanupLoop runs Cleanup every interval until ctx is done.
func (v *Visitors) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup()
		}
	}
}
