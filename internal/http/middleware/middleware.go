package middleware

import (
	"time"

	"deal_finder_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RequestTimer logs every request with method, path, status and latency.
func RequestTimer(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := float64(time.Since(start).Microseconds()) / 1000.0
		log.HTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), latency, c.ClientIP())
	}
}
