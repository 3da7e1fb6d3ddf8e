// Package ratelimit implements a redis backed sliding window limiter for net/http.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/retail-pos/pkg/logger"
)

// Limiter allows at most maxRequests per identifier within a sliding window
type Limiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewLimiter creates a limiter. A nil client disables limiting.
func NewLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Middleware rejects requests over the limit with 429. Requests pass through
// when redis is unavailable.
func (l *Limiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.redis == nil || l.maxRequests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		identifier := clientIP(r)

		allowed, remaining, resetTime, err := l.Allow(ctx, identifier)
		if err != nil {
			logger.Error(ctx).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(ctx).
				Str("identifier", identifier).
				Int("limit", l.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := time.Until(resetTime).Round(time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
			})
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Allow records one request for identifier and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("%s:%s", l.prefix, identifier)
	now := l.now()
	windowStart := now.Add(-l.window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := countCmd.Val()
	remaining := l.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < int64(l.maxRequests), remaining, now.Add(l.window), nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
