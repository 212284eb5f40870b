package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/apierror"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
)

// RateLimiter provides fixed-window request limiting per client key
type RateLimiter struct {
	requests map[string]*clientInfo
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
	name     string        // identifier for logging
	now      func() time.Time
}

type clientInfo struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

// NewRateLimiter creates a new rate limiter
// rate: maximum requests allowed per window
// window: time window for rate limiting
// name: identifier for logging (e.g., "general", "analysis")
func NewRateLimiter(rate int, window time.Duration, name string) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]*clientInfo),
		rate:     rate,
		window:   window,
		name:     name,
		now:      time.Now,
	}

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("rate", rate),
		logger.Duration("window", window),
	)

	return rl
}

// Run removes stale entries until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	now := rl.now()
	cleaned := 0
	for key, info := range rl.requests {
		if now.Sub(info.lastSeen) > rl.window*2 {
			delete(rl.requests, key)
			cleaned++
		}
	}
	remaining := len(rl.requests)
	rl.mu.Unlock()

	if cleaned > 0 {
		logger.Default().Debug("rate limiter cleanup completed",
			logger.String("name", rl.name),
			logger.Int("cleaned", cleaned),
			logger.Int("remaining", remaining),
		)
	}
}

// allow counts a request for key. It returns whether the request fits in the
// current window, the requests left, and how long until the window resets.
func (rl *RateLimiter) allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, exists := rl.requests[key]
	if !exists || now.Sub(info.windowStart) >= rl.window {
		info = &clientInfo{windowStart: now}
		rl.requests[key] = info
	}

	info.count++
	info.lastSeen = now

	reset := rl.window - now.Sub(info.windowStart)
	remaining := rl.rate - info.count
	if remaining < 0 {
		remaining = 0
	}
	return info.count <= rl.rate, remaining, reset
}

// Middleware limits per authenticated user, falling back to the client IP
// when Auth has not run
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextUserID)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, remaining, reset := rl.allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retryAfter := int(math.Ceil(reset.Seconds()))
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", rl.name),
				logger.String("client", key),
				logger.Int("limit", rl.rate),
				logger.Duration("window", rl.window),
			)
			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
