package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/pkg/redis"
	"github.com/schoolboard/core/internal/pkg/response"
)

const rateLimitKeyPrefix = "board-rate-limit:"

// RateLimitOptions controls the fixed-window request budget.
type RateLimitOptions struct {
	Max    int
	Window time.Duration
}

func normalizeRateLimitOptions(opts *RateLimitOptions) RateLimitOptions {
	out := RateLimitOptions{Max: 120, Window: time.Minute}
	if opts != nil {
		if opts.Max > 0 {
			out.Max = opts.Max
		}
		if opts.Window > 0 {
			out.Window = opts.Window
		}
	}
	return out
}

// RateLimit limits requests per client IP within a rolling window. When
// redis is unavailable the middleware fails open.
func RateLimit(rdb *redis.Client, opts *RateLimitOptions) gin.HandlerFunc {
	conf := normalizeRateLimitOptions(opts)
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		key := fmt.Sprintf("%s%s", rateLimitKeyPrefix, c.ClientIP())
		count, err := rdb.Incr(ctx, key)
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			_ = rdb.Expire(ctx, key, conf.Window)
		}
		if count > int64(conf.Max) {
			response.TooManyRequests(c, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
