package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/devconnect/backend/internal/utils"
)

const (
	rateLimitWindow      = time.Minute
	rateLimitMaxRequests = 20
	rateLimitKeyPrefix   = "ratelimit:"
)

// RateLimitStore is the slice of the Redis API the limiter touches;
// *redis.Client satisfies it.
type RateLimitStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit is a fixed-window per-IP limiter for the public account
// endpoints. Redis failures fail open: a broken limiter must not take
// registration down with it.
func RateLimit(rdb RateLimitStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				// A counter without a TTL would throttle this IP forever
				// once it crosses the cap; drop it and fail open.
				_ = rdb.Del(ctx, key).Err()
				c.Next()
				return
			}
		}

		if count > rateLimitMaxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiError{
				Code:    utils.CodeUnavailable,
				Message: "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
