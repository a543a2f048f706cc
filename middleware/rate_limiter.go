package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cokothon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per client IP.
type RateLimiter struct {
	name     string
	perMin   int
	limiters map[string]*limiterEntry
	mu       sync.Mutex
}

// NewRateLimiter allows perMinute requests per IP, with the whole minute's
// budget available as burst.
func NewRateLimiter(name string, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		name:     name,
		perMin:   perMinute,
		limiters: make(map[string]*limiterEntry),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *RateLimiter) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// prune drops limiters idle for longer than maxIdle.
func (s *RateLimiter) prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for ip, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, ip)
			removed++
		}
	}
	return removed
}

// StartJanitor prunes idle limiters every interval until ctx is cancelled.
func (s *RateLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.prune(interval); n > 0 {
					utils.GetLogger().Debug("Pruned idle rate limiters", zap.String("limiter", s.name), zap.Int("count", n))
				}
			}
		}
	}()
}

// Middleware limits requests per IP address.
func (s *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !s.getLimiter(ip).Allow() {
			loggerFrom(c).Warn("Rate limit exceeded", zap.String("limiter", s.name), zap.String("ip", ip))
			c.Header("Retry-After", "60")
			utils.RenderError(c, http.StatusTooManyRequests, utils.MsgTooManyReqs)
			c.Abort()
			return
		}
		c.Next()
	}
}
