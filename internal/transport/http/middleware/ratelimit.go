package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hrinsight/internal/requestctx"
	"hrinsight/internal/transport/http/api"
	"hrinsight/internal/transport/http/shared"
)

// Counter counts hits per key in fixed windows. Hit returns the count
// including this hit and the time left until the window resets.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(rl *rateLimiter) {
		if fn != nil {
			rl.keyFn = fn
		}
	}
}

// WithCounter replaces the per-process counter, typically with a RedisCounter
// so replicas share one budget.
func WithCounter(c Counter) RateLimitOption {
	return func(rl *rateLimiter) {
		if c != nil {
			rl.counter = c
		}
	}
}

// RateLimit applies limit requests per window to every request, keyed by
// user when authenticated and by client IP otherwise.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter("api", limit, window, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.enforce(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit throttles report exports and benchmark
// recalculation per actor at half the base limit. Other routes pass through.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter("sensitive", max(baseLimit/2, 1), window, opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSensitiveMutation(r) && !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type rateLimiter struct {
	scope   string
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	counter Counter
}

func newRateLimiter(scope string, limit int, window time.Duration, opts []RateLimitOption) *rateLimiter {
	rl := &rateLimiter{scope: scope, limit: limit, window: window, keyFn: actorOrIPKey}
	for _, opt := range opts {
		opt(rl)
	}
	if rl.counter == nil {
		rl.counter = NewMemoryCounter()
	}
	return rl
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != 0 {
		return "user:" + strconv.FormatInt(user.UserID, 10)
	}
	return "ip:" + shared.ClientIP(r)
}

// enforce counts the request and writes the 429 itself when over the limit.
// Counter failures let the request through.
func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}
	key := rl.keyFn(r)
	if key == "" {
		key = "ip:" + shared.ClientIP(r)
	}
	logger := requestctx.Logger(r.Context())

	count, resetIn, err := rl.counter.Hit(r.Context(), rl.scope+":"+key, rl.window)
	if err != nil {
		logger.Warn("rate limit counter failed", "scope", rl.scope, "err", err)
		return true
	}

	resetSec := ceilSeconds(resetIn)
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-count, 0)))
	headers.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if count <= rl.limit {
		return true
	}

	headers.Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	logger.Warn("rate limit exceeded",
		"scope", rl.scope,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", rl.limit,
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func isSensitiveMutation(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	return path == "/reports/consolidated/export" || path == "/benchmarks"
}

// MemoryCounter keeps windows in process memory.
type MemoryCounter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	nextSweep time.Time
	now       func() time.Time
}

type rateBucket struct {
	count int
	reset time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{buckets: map[string]*rateBucket{}, now: time.Now}
}

func (c *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.After(c.nextSweep) {
		for k, b := range c.buckets {
			if now.After(b.reset) {
				delete(c.buckets, k)
			}
		}
		c.nextSweep = now.Add(window)
	}

	bucket, ok := c.buckets[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{reset: now.Add(window)}
		c.buckets[key] = bucket
	}
	bucket.count++
	return bucket.count, bucket.reset.Sub(now), nil
}

var hitScript = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RedisCounter shares windows across processes through INCR and PEXPIRE.
type RedisCounter struct {
	client goredis.Scripter
	prefix string
}

func NewRedisCounter(client goredis.Scripter, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix}
}

func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	vals, err := hitScript.Run(ctx, c.client, []string{c.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %d values", len(vals))
	}
	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return int(vals[0]), ttl, nil
}
