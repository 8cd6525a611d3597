package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// RateLimiter is a fixed window request counter kept in Redis
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
	logger *zap.Logger
}

func NewRateLimiter(client *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit"
	}
	return &RateLimiter{client: client, config: config, logger: logger}
}

// allow counts one request for clientID and reports the count so far in the current window
func (l *RateLimiter) allow(ctx context.Context, clientID string) (int64, error) {
	key := fmt.Sprintf("%s:%s", l.config.KeyPrefix, clientID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter %s: %w", key, err)
	}

	// First hit opens the window
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window %s: %w", key, err)
		}
	}

	return count, nil
}

func (l *RateLimiter) retryAfter(ctx context.Context, clientID string) time.Duration {
	ttl, err := l.client.TTL(ctx, fmt.Sprintf("%s:%s", l.config.KeyPrefix, clientID)).Result()
	if err != nil || ttl < 0 {
		return l.config.Window
	}
	return ttl
}

// Middleware rejects clients that exceed the configured request count with 429.
// Clients are identified by token subject when authenticated, otherwise by address.
// Redis failures let the request through.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	limit := strconv.Itoa(l.config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			clientID := r.RemoteAddr
			if subject, ok := GetSubject(ctx); ok {
				clientID = subject
			}

			count, err := l.allow(ctx, clientID)
			if err != nil {
				l.logger.Error("Rate limit check failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)

			if count > int64(l.config.RequestsPerWindow) {
				ttl := l.retryAfter(ctx, clientID)

				l.logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", count),
					zap.Int("limit", l.config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))

				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.config.RequestsPerWindow)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
