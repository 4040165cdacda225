package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/pkg/response"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter allows limit requests per client in fixed windows
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter. Expired windows are swept until ctx
// is done.
func NewRateLimiter(ctx context.Context, limit int, every time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  every,
		now:     time.Now,
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for client, w := range rl.clients {
				if now.Sub(w.start) >= rl.window {
					delete(rl.clients, client)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow reports whether client may make another request in the current window
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[client] = &window{start: now, count: 1}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// RateLimit middleware limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			log.Warn().
				Str("component", "http").
				Str("client_ip", c.ClientIP()).
				Msg("Rate limit exceeded")
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			return
		}
		c.Next()
	}
}
