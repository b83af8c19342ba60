package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:ip:"

// Bucket names one token bucket policy. Each client IP gets its own
// bucket per Name, so "auth" and "search" never drain each other.
type Bucket struct {
	Name  string
	Rate  float64 // tokens refilled per second
	Burst int     // bucket capacity
}

// Validate reports whether the bucket can admit requests at all.
func (b Bucket) Validate() error {
	if b.Name == "" {
		return errors.New("rate limit bucket needs a name")
	}
	if b.Rate <= 0 || b.Burst <= 0 {
		return fmt.Errorf("rate limit bucket %q: rate and burst must be positive", b.Name)
	}
	return nil
}

// Key returns the storage key for ip. The IP is hashed so raw client
// addresses never reach Redis.
func (b Bucket) Key(ip string) string {
	return rateLimitPrefix + b.Name + ":" + hashIP(ip)
}

// TokenInterval is how long the bucket takes to refill one token.
func (b Bucket) TokenInterval() time.Duration {
	return time.Duration(float64(time.Second) / b.Rate)
}

// RefillTime is how long an empty bucket takes to fill completely.
// State idle for longer than this is indistinguishable from a new bucket.
func (b Bucket) RefillTime() time.Duration {
	return time.Duration(float64(b.Burst) / b.Rate * float64(time.Second))
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// takeTokenScript refills the bucket for the elapsed time and takes one
// token if available. Times are in milliseconds.
// Returns {allowed, retry_after_ms, remaining}.
var takeTokenScript = redis.NewScript(`
local rate = tonumber(ARGV[1]) / 1000
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now
tokens = math.min(burst, tokens + math.max(0, now - ts) * rate)

local allowed = 0
local wait = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
else
	wait = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', KEYS[1], ttl)
return {allowed, wait, math.floor(tokens)}
`)

// Take consumes one token from ip's bucket.
func (c *Cache) Take(ctx context.Context, b Bucket, ip string) (*RateLimitResult, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	// Keep state until the bucket would be full again, plus a second of slack.
	ttl := b.RefillTime() + time.Second

	res, err := takeTokenScript.Run(ctx, c.client,
		[]string{b.Key(ip)},
		b.Rate, b.Burst, now.UnixMilli(), ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", b.Name, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", b.Name, res)
	}

	result := &RateLimitResult{
		Allowed:   res[0] == 1,
		Remaining: res[2],
		ResetAt:   now.Add(b.TokenInterval()),
	}
	if !result.Allowed {
		result.RetryAfter = time.Duration(res[1]) * time.Millisecond
		result.ResetAt = now.Add(result.RetryAfter)
	}
	return result, nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
