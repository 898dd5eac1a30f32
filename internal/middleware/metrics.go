package middleware

import (
	"strconv"

	"ai-detector/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics counts requests per route and status code
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
