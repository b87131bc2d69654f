// Package ratelimit bounds how often a single visitor may submit scans.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 30 * time.Minute

// VisitorLimiter keeps one token bucket per visitor key. Limits can be
// adjusted at runtime; existing buckets pick up the new limits.
type VisitorLimiter struct {
	mu       sync.Mutex
	perMin   float64
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Option func(*VisitorLimiter)

// WithIdleTTL sets how long an unused bucket is kept before Sweep drops it.
func WithIdleTTL(ttl time.Duration) Option {
	return func(l *VisitorLimiter) {
		if ttl > 0 {
			l.idleTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *VisitorLimiter) {
		l.now = now
	}
}

// New creates a limiter allowing perMinute events per visitor with the
// given burst. perMinute <= 0 disables limiting.
func New(perMinute float64, burst int, opts ...Option) *VisitorLimiter {
	l := &VisitorLimiter{
		perMin:   perMinute,
		burst:    burst,
		idleTTL:  defaultIdleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *VisitorLimiter) limit() rate.Limit {
	if l.perMin <= 0 {
		return rate.Inf
	}
	return rate.Limit(l.perMin / 60)
}

// Allow reports whether key may perform one more event now.
func (l *VisitorLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.perMin <= 0 {
		return true
	}

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit(), l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// UpdateLimits changes the rate and burst for every current and future
// visitor.
func (l *VisitorLimiter) UpdateLimits(perMinute float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.perMin = perMinute
	l.burst = burst
	now := l.now()
	for _, v := range l.visitors {
		v.limiter.SetLimitAt(now, l.limit())
		v.limiter.SetBurstAt(now, burst)
	}
}

// Sweep drops buckets idle for longer than the idle TTL and returns how
// many were removed.
func (l *VisitorLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Len is the number of tracked visitors.
func (l *VisitorLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
