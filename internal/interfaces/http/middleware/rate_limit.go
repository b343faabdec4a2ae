package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/credscore/internal/infrastructure/monitoring"
	"github.com/turtacn/credscore/internal/infrastructure/ratelimit"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
)

const rateLimitScopeIP = "ip"

// RateLimitMiddleware limits requests per client IP. Limiter failures fail open.
func RateLimitMiddleware(limiter ratelimit.Limiter, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Error(c.Request.Context(), "rate limiter failed", err)
			c.Next()
			return
		}

		c.Header(constants.HeaderRateLimitLimit, strconv.FormatInt(res.Limit, 10))
		c.Header(constants.HeaderRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))

		if !res.Allowed {
			if metrics != nil {
				metrics.RecordRateLimitHit(rateLimitScopeIP)
			}
			log.Warn(c.Request.Context(), "rate limit exceeded",
				logger.String("client_ip", ip),
				logger.Int64("limit", res.Limit))

			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			svcErr := errors.ErrRateLimitExceeded(rateLimitScopeIP, int(res.Limit))
			c.AbortWithStatusJSON(svcErr.HTTPStatus(), errors.ToErrorResponse(svcErr))
			return
		}

		c.Next()
	}
}
