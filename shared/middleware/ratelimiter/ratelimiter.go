// Package ratelimiter keeps one token bucket per client identity.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands each identity (usually the client IP) its own rate.Limiter.
// Identities idle for longer than idleTTL are forgotten.
type Limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*client

	stop     chan struct{}
	stopOnce sync.Once
}

// New starts a limiter allowing limit events per second with the given burst.
// Call Stop to end its sweeper.
func New(limit rate.Limit, burst int, idleTTL time.Duration) *Limiter {
	l := newLimiter(limit, burst, idleTTL)
	go l.sweepLoop()
	return l
}

func newLimiter(limit rate.Limit, burst int, idleTTL time.Duration) *Limiter {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	return &Limiter{
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
	}
}

// FivePerMinute guards credential forms: bursts of five, one more every 12s.
func FivePerMinute() *Limiter { return New(rate.Every(12*time.Second), 5, time.Hour) }

// PerClientPages limits page traffic of a single client. A page load costs one
// request; static assets are not counted.
func PerClientPages() *Limiter { return New(20, 60, 10*time.Minute) }

// Allow reports whether identity may make one more request now.
func (l *Limiter) Allow(identity string) bool {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[identity]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[identity] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for identity, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, identity)
		}
	}
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
