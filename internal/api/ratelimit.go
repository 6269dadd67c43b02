package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RateLimitConfig holds rate limiter configuration.
type RateLimitConfig struct {
	RPS   int // sustained tokens per second, per client
	Burst int // bucket capacity
}

// Generation hits GitHub and optionally the Anthropic API, so it is
// charged more than a read against the same bucket.
const generateCost = 5

// RateLimiter applies a per-client token bucket, charging mutating
// requests a higher cost than reads. It must be closed to stop its
// janitor goroutine.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientBucket
	rps      float64
	burst    float64
	now      func() time.Time
	onReject func()
	stop     chan struct{}
	stopOnce sync.Once
}

type clientBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a rate limiter. onReject, if non-nil, is
// invoked once per rejected request.
func NewRateLimiter(cfg RateLimitConfig, onReject func()) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientBucket),
		rps:      float64(cfg.RPS),
		burst:    float64(cfg.Burst),
		now:      time.Now,
		onReject: onReject,
		stop:     make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// take refills the client's bucket and tries to deduct cost from it.
func (rl *RateLimiter) take(client string, cost float64) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[client]
	if !ok {
		b = &clientBucket{tokens: rl.burst, last: now}
		rl.clients[client] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.rps
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < cost {
		return false
	}
	b.tokens -= cost
	return true
}

// janitor drops buckets idle long enough to have fully refilled.
func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for k, b := range rl.clients {
				if now.Sub(b.last) > 10*time.Minute {
					delete(rl.clients, k)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the janitor goroutine. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// requestCost returns the token charge for a request. Layout
// generation (including previews) is the expensive path.
func requestCost(method, path string) float64 {
	if method == fiber.MethodPost && strings.HasPrefix(path, "/api/v1/layouts") {
		return generateCost
	}
	return 1
}

// Middleware returns the Fiber handler enforcing this limiter.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/healthz" || path == "/readyz" || path == "/metrics" {
			return c.Next()
		}

		if !rl.take(c.IP(), requestCost(c.Method(), path)) {
			if rl.onReject != nil {
				rl.onReject()
			}
			return problemResponse(c, fiber.StatusTooManyRequests,
				"rate_limit_exceeded", "Too Many Requests",
				"Rate limit exceeded. Please try again later.")
		}

		return c.Next()
	}
}
