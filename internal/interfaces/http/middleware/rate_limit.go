// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateLimit applies a fixed one-minute window per client IP, counted in
// Redis. Without Redis, or when Redis errors, requests are let through.
func RateLimit(limit int, redisClient *redis.Client, log logrus.FieldLogger) gin.HandlerFunc {
	if redisClient == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		var (
			incr *redis.IntCmd
			ttl  *redis.DurationCmd
		)
		_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			log.WithError(err).Warn("rate limit check failed, allowing request")
			c.Next()
			return
		}
		current := incr.Val()

		// A key without a TTL is a window whose expire never landed
		if ttl.Val() < 0 {
			if err := redisClient.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.WithError(err).Warn("failed to set rate limit window")
			}
		}

		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(rateLimitWindow.Seconds()),
			})
			return
		}

		c.Next()
	}
}
