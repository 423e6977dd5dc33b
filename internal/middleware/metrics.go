package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"inventory/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records the count and latency of every request, labelled by the
// route pattern rather than the raw path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedRoute
		}
		metrics.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
