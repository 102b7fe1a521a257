package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/logger"
)

// RequestLogger logs a structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Get().Info()
		if c.Writer.Status() >= 500 {
			event = logger.Get().Error()
		} else if c.Writer.Status() >= 400 {
			event = logger.Get().Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
