package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Briancute/local-lead-finder/internal/cache"
)

// IPLimiter takes one token from a client IP's bucket.
type IPLimiter interface {
	Take(ctx context.Context, b cache.Bucket, ip string) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger *slog.Logger
	// Limiter is the shared limiter, normally Redis. When nil, an
	// in-process limiter is used.
	Limiter IPLimiter
	Enabled bool
	Bucket  cache.Bucket
}

// RateLimitIP returns middleware that rate limits requests per client IP.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLocalLimiter()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			result, err := limiter.Take(r.Context(), cfg.Bucket, ip)
			if err != nil {
				cfg.Logger.Error("IP rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("ip", ip),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, cfg.Bucket.Burst, result.Remaining, result.ResetAt)

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("bucket", cfg.Bucket.Name),
					slog.String("ip", ip),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
				writeRateLimitError(w, result.RetryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const (
	// localLimiterIdle is how long an untouched bucket is kept. Buckets
	// that refill faster than this are full again by the time they go.
	localLimiterIdle = 10 * time.Minute
	// localLimiterMax caps tracked buckets. At the cap the least recently
	// used one is dropped.
	localLimiterMax = 10000
)

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per bucket/IP pair in process memory.
// Idle buckets are swept and the total is capped so spoofed or rotating
// addresses cannot grow it without bound.
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	idle      time.Duration
	max       int
	now       func() time.Time
}

// NewLocalLimiter creates an empty in-process limiter.
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		idle:    localLimiterIdle,
		max:     localLimiterMax,
		now:     time.Now,
	}
}

// Len returns the number of tracked buckets.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Take consumes one token from the IP's bucket.
func (l *LocalLimiter) Take(_ context.Context, b cache.Bucket, ip string) (*cache.RateLimitResult, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	now := l.now()
	lim := l.limiter(b, ip, now)
	l.mu.Unlock()

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return &cache.RateLimitResult{Allowed: false, RetryAfter: time.Second, ResetAt: now.Add(time.Second)}, nil
	}

	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return &cache.RateLimitResult{
			Allowed:    false,
			ResetAt:    now.Add(delay),
			RetryAfter: delay,
		}, nil
	}

	return &cache.RateLimitResult{
		Allowed:   true,
		Remaining: int64(lim.TokensAt(now)),
		ResetAt:   now.Add(b.TokenInterval()),
	}, nil
}

// limiter returns the bucket for ip, creating it if needed. Callers hold mu.
func (l *LocalLimiter) limiter(b cache.Bucket, ip string, now time.Time) *rate.Limiter {
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	key := b.Key(ip)
	if e, ok := l.buckets[key]; ok {
		e.lastSeen = now
		return e.lim
	}

	if len(l.buckets) >= l.max {
		l.sweep(now)
		if len(l.buckets) >= l.max {
			l.evictOldest()
		}
	}

	e := &localBucket{lim: rate.NewLimiter(rate.Limit(b.Rate), b.Burst), lastSeen: now}
	l.buckets[key] = e
	return e.lim
}

func (l *LocalLimiter) sweep(now time.Time) {
	for key, e := range l.buckets {
		if now.Sub(e.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *LocalLimiter) evictOldest() {
	var oldest string
	var seen time.Time
	for key, e := range l.buckets {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = key, e.lastSeen
		}
	}
	delete(l.buckets, oldest)
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// writeRateLimitError writes a 429 Too Many Requests response.
func writeRateLimitError(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	msg := fmt.Sprintf(`{"error":"Too many requests","message":"Rate limit exceeded. Retry after %d seconds."}`,
		retryAfterSeconds(retryAfter))
	_, _ = w.Write([]byte(msg))
}

// getClientIP returns the host part of RemoteAddr. Proxy headers are
// resolved into RemoteAddr by chi's RealIP middleware, which the router
// mounts only when the deployment trusts them.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
