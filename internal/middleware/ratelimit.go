package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/toolshub/api/internal/limiter"
)

// RateLimitMiddleware enforces the fixed-window limit for an action,
// keyed by the authenticated email when present, otherwise the client IP.
// Limiter errors fail open: an unreachable Redis must not lock everyone out.
func RateLimitMiddleware(l *limiter.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		clientID := c.ClientIP()
		if email, exists := c.Get("userEmail"); exists {
			clientID = email.(string)
		}

		result, err := l.Check(c.Request.Context(), clientID, action)
		if err != nil {
			log.Printf("Warning: rate limit check failed for %s: %v", action, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
