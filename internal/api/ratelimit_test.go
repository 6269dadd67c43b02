package api

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter builds a limiter without the janitor goroutine so the
// clock can be advanced deterministically.
func newTestLimiter(t *testing.T, cfg RateLimitConfig, onReject func()) (*RateLimiter, *time.Time) {
	t.Helper()
	now := time.Now()
	rl := &RateLimiter{
		clients:  make(map[string]*clientBucket),
		rps:      float64(cfg.RPS),
		burst:    float64(cfg.Burst),
		now:      func() time.Time { return now },
		onReject: onReject,
		stop:     make(chan struct{}),
	}
	t.Cleanup(rl.Close)
	return rl, &now
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	rl, now := newTestLimiter(t, RateLimitConfig{RPS: 1, Burst: 2}, nil)

	assert.True(t, rl.take("1.2.3.4", 1))
	assert.True(t, rl.take("1.2.3.4", 1))
	assert.False(t, rl.take("1.2.3.4", 1), "burst exhausted")

	// One second of refill buys one more token.
	*now = now.Add(time.Second)
	assert.True(t, rl.take("1.2.3.4", 1))
	assert.False(t, rl.take("1.2.3.4", 1))
}

func TestRateLimiterPerClientBuckets(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitConfig{RPS: 1, Burst: 1}, nil)

	assert.True(t, rl.take("1.2.3.4", 1))
	assert.False(t, rl.take("1.2.3.4", 1))
	assert.True(t, rl.take("5.6.7.8", 1), "separate client has its own bucket")
}

func TestRateLimiterRefillCapsAtBurst(t *testing.T) {
	rl, now := newTestLimiter(t, RateLimitConfig{RPS: 10, Burst: 3}, nil)

	require.True(t, rl.take("c", 3))
	*now = now.Add(time.Hour)
	assert.True(t, rl.take("c", 3))
	assert.False(t, rl.take("c", 1), "idle refill must not exceed burst")
}

func TestRequestCost(t *testing.T) {
	assert.Equal(t, float64(generateCost), requestCost(fiber.MethodPost, "/api/v1/layouts"))
	assert.Equal(t, float64(generateCost), requestCost(fiber.MethodPost, "/api/v1/layouts/preview"))
	assert.Equal(t, 1.0, requestCost(fiber.MethodGet, "/api/v1/layouts"))
	assert.Equal(t, 1.0, requestCost(fiber.MethodDelete, "/api/v1/layouts/abc"))
}

func TestRateLimiterGenerationCostsMore(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitConfig{RPS: 1, Burst: generateCost}, nil)

	cost := requestCost(fiber.MethodPost, "/api/v1/layouts")
	assert.True(t, rl.take("c", cost), "one generation fits in the burst")
	assert.False(t, rl.take("c", cost), "a second one does not")
	assert.False(t, rl.take("c", 1), "and the bucket is drained for reads too")
}

func TestRateLimiterOnRejectCallback(t *testing.T) {
	rejected := 0
	rl, _ := newTestLimiter(t, RateLimitConfig{RPS: 1, Burst: 1}, func() { rejected++ })

	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/api/v1/layouts", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp := doJSON(t, app, "GET", "/api/v1/layouts", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/layouts", nil, nil)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	problem := decode[ProblemDetail](t, resp)
	assert.Equal(t, "rate_limit_exceeded", problem.Type)
	assert.Equal(t, 1, rejected)
}

func TestRateLimiterSkipsProbes(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitConfig{RPS: 1, Burst: 1}, nil)

	app := fiber.New()
	app.Use(rl.Middleware())
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		app.Get(path, func(c *fiber.Ctx) error { return c.SendString("ok") })
	}

	for i := 0; i < 5; i++ {
		for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
			resp := doJSON(t, app, "GET", path, nil, nil)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		}
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RPS: 1, Burst: 1}, nil)
	rl.Close()
	rl.Close()
}
