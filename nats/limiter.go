package nats

import (
	"sync"

	"golang.org/x/time/rate"
)

// playerLimiter throttles inbound events per player so a single client
// cannot flood the table loop.
type playerLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newPlayerLimiter(eventsPerSec float64, burst int) *playerLimiter {
	return &playerLimiter{
		limit:    rate.Limit(eventsPerSec),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *playerLimiter) Allow(playerUUID string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[playerUUID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[playerUUID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *playerLimiter) Forget(playerUUID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, playerUUID)
}
