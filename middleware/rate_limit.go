package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/config"
)

// RateLimiter caps requests per client IP inside a fixed window, backed
// by a redis counter so the cap holds across instances. With no redis
// client configured it lets everything through.
func RateLimiter(window time.Duration, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RedisClient == nil || max <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		count, err := config.RedisClient.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis trouble should not take requests down with it.
			config.Logger.Errorw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			config.RedisClient.Expire(c.Request.Context(), key, window)
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}
