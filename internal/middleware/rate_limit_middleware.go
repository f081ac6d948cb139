package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"cashflow_backend/internal/ratelimit"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware counts requests per client IP. When the limiter itself fails
// the request is let through and the failure logged.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			utils.LogError(err, "Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeRateLimited,
				"Too many requests from this IP, please try again later.", ""))
			return
		}

		c.Next()
	}
}
