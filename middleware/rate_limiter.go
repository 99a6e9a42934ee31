package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds per-IP limiters. Entries are swept after an idle
// period so the map stays bounded; the clock is injectable for tests.
type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterStore(now func() time.Time) *rateLimiterStore {
	if now == nil {
		now = time.Now
	}
	return &rateLimiterStore{
		limiters: make(map[string]*limiterEntry),
		now:      now,
	}
}

var limiterStore = newRateLimiterStore(nil)

// getLimiter returns the rate limiter for a given IP, creating one if it
// doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[ip]
	if !exists {
		// 200 requests per minute with matching burst capacity.
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/200), 200)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter
}

// sweep drops limiters not seen within maxIdle.
func (s *rateLimiterStore) sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for ip, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, ip)
			removed++
		}
	}
	return removed
}

// SweepRateLimiters drops idle per-IP limiters; run periodically by the
// background scheduler.
func SweepRateLimiters(maxIdle time.Duration) int {
	return limiterStore.sweep(maxIdle)
}

// RateLimitMiddleware limits requests per IP address.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		ip := getClientIP(c)
		limiter := limiterStore.getLimiter(ip)
		if !limiter.Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
