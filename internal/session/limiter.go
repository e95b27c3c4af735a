package session

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate limits requests per client key (typically the remote IP)
// with a token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	idle    time.Duration
	clients map[string]*clientLimiter
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows rps sustained requests per second per key, with bursts
// of up to burst. Buckets idle longer than ten minutes are dropped.
func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops idle buckets. Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idle {
			delete(l.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
