package wpfront

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SubmitLimiter rate-limits form and relay submissions per client IP with a
// token bucket per address.
type SubmitLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSubmitLimiter allows perSecond submissions per IP with the given burst.
// Buckets unused for idle are forgotten by a background sweep; call Stop to end it.
func NewSubmitLimiter(perSecond float64, burst int, idle time.Duration) *SubmitLimiter {
	l := &SubmitLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *SubmitLimiter) cleanup() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *SubmitLimiter) sweep() {
	cutoff := l.now().Add(-l.idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Allow consumes one token for ip and reports whether the submission may proceed.
func (l *SubmitLimiter) Allow(ip string) bool {
	now := l.now()
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// Stop ends the background sweep.
func (l *SubmitLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *SubmitLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
