package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

// fallbackLimiters hands out per-IP token buckets when Redis is unreachable,
// so a Redis outage degrades to in-process limiting instead of no limiting.
type fallbackLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func (f *fallbackLimiters) get(ip string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.limiters[ip]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(rateLimitWindow/rateLimitMax), rateLimitMax)
	f.limiters[ip] = l
	return l
}

// RateLimit returns a middleware that enforces a sliding-window rate limit
// of 50 requests per second per client IP.
func RateLimit(rdb *redis.Client) gin.HandlerFunc {
	fallback := &fallbackLimiters{limiters: make(map[string]*rate.Limiter)}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix()
		key := fmt.Sprintf("lens:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			if !fallback.get(ip).Allow() {
				tooManyRequests(c)
			} else {
				c.Next()
			}
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > rateLimitMax {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"ok":      0,
		"code":    http.StatusTooManyRequests,
		"message": "too many requests, slow down",
	})
}
