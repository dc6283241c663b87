package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"costservice/internal/config"
	"costservice/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter implements per-client rate limiting using a token bucket
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	window   int
	requests int
	exempt   map[string]struct{}

	cleanup  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter allowing cfg.Requests per cfg.Window
// seconds for each client IP. Requests to exempt paths are never limited.
// A non-positive Requests or Window falls back to the config default.
func NewRateLimiter(cfg config.RateLimitConfig, exempt ...string) *RateLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = config.DefaultRateLimitRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultRateLimitWindow
	}
	interval := time.Duration(cfg.Window) * time.Second / time.Duration(cfg.Requests)

	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(interval),
		burst:    cfg.Requests,
		window:   cfg.Window,
		requests: cfg.Requests,
		exempt:   make(map[string]struct{}, len(exempt)),
		cleanup:  time.Hour,
		stop:     make(chan struct{}),
	}
	for _, p := range exempt {
		rl.exempt[p] = struct{}{}
	}

	go rl.cleanupRoutine()

	return rl
}

// Stop terminates the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// getLimiter returns the limiter for the given client key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists = rl.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

// cleanupRoutine periodically drops all limiters
func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			rl.limiters = make(map[string]*rate.Limiter)
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.requests)

	return func(c *gin.Context) {
		if _, ok := rl.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		limiter := rl.getLimiter(c.ClientIP())
		now := time.Now()
		r := limiter.ReserveN(now, 1)

		wait := time.Duration(rl.window) * time.Second
		if r.OK() {
			wait = r.DelayFrom(now)
		}
		if !r.OK() || wait > 0 {
			r.CancelAt(now)
			retryAfter := int(wait.Round(time.Second).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(wait).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: fmt.Sprintf("rate limit exceeded, retry after %ds", retryAfter),
			})
			return
		}

		remaining := int(limiter.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Duration(rl.window)*time.Second).Unix(), 10))

		c.Next()
	}
}
