package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/utils"
)

// RateLimiter is a Redis sliding-window limiter keyed by client IP.
// When Redis is unavailable requests are let through.
type RateLimiter struct {
	redis     *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRateLimiter creates a new RateLimiter. scope separates counters of
// different route groups.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, scope string, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:     redisClient,
		limit:     limit,
		window:    window,
		keyPrefix: "ratelimit:" + scope + ":",
		logger:    logger,
	}
}

// Middleware enforces the limit on next
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl == nil || rl.redis == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.keyPrefix + getClientIP(r)
		allowed, remaining, resetTime := rl.allowRequest(r.Context(), key)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

		if !allowed {
			retry := int(time.Until(resetTime).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
			utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Too Many Requests",
				"too many requests from this IP, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allowRequest(ctx context.Context, key string) (bool, int, time.Time) {
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	zcard := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return true, rl.limit, now.Add(rl.window)
	}

	count := int(zcard.Val())
	if count >= rl.limit {
		resetTime := now.Add(rl.window)
		results, err := rl.redis.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err == nil && len(results) > 0 {
			resetTime = time.Unix(0, int64(results[0].Score)).Add(rl.window)
		}
		return false, 0, resetTime
	}

	remaining := rl.limit - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, now.Add(rl.window)
}

// getClientIP keys on the connection address without its port. Forwarding
// headers are left to chi's RealIP, which runs before the limiter.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
