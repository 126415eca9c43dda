package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"golang.org/x/time/rate"
)

// visitorIdleTTL is how long a client IP may stay silent before its limiter
// is dropped.
const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorSet struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitorSet(r rate.Limit, b int, ttl time.Duration, now func() time.Time) *visitorSet {
	return &visitorSet{
		visitors:  make(map[string]*visitor),
		limit:     r,
		burst:     b,
		ttl:       ttl,
		lastSweep: now(),
		now:       now,
	}
}

func (s *visitorSet) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		s.cleanup(now)
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// cleanup drops visitors idle for longer than ttl. Callers hold mu.
func (s *visitorSet) cleanup(now time.Time) {
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) >= s.ttl {
			delete(s.visitors, ip)
		}
	}
	s.lastSweep = now
}

func (s *visitorSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimiter applies a token bucket per client IP.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	return rateLimit(newVisitorSet(r, b, visitorIdleTTL, time.Now))
}

func rateLimit(visitors *visitorSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !visitors.get(c.ClientIP()).Allow() {
			apierrors.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PerMinute converts a requests-per-minute budget to a rate.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(n) / 60.0)
}
