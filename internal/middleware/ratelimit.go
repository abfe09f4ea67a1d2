package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/simp-lee/coconsole/internal/pkg"
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// IdleTTL is how long an unused client bucket is kept. Defaults to 10 minutes.
	IdleTTL time.Duration
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	buckets map[string]*clientBucket
	swept   time.Time
	now     func() time.Time
}

// RateLimit returns a middleware that limits each client IP to cfg.RPS
// requests per second with bursts of cfg.Burst. Rejected API requests get a
// JSON 429, page requests a plain 429.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	rl := &rateLimiter{cfg: cfg, buckets: make(map[string]*clientBucket), now: time.Now}
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	if rl.allow(c.ClientIP()) {
		c.Next()
		return
	}
	c.Header("Retry-After", "1")
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, pkg.Response{Code: http.StatusTooManyRequests, Message: "too many requests"})
		return
	}
	c.AbortWithStatus(http.StatusTooManyRequests)
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) > rl.cfg.IdleTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) > rl.cfg.IdleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.swept = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.limiter.AllowN(now, 1)
}
