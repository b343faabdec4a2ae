package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/credscore/pkg/logger"
)

// Logging writes one access log line per request.
func Logging(log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			logger.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Warn(c.Request.Context(), "Request failed", fields...)
		default:
			log.Info(c.Request.Context(), "Request processed", fields...)
		}
	}
}
