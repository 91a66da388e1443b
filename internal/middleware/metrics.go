package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/service"
)

// Metrics records duration and status per route template. A nil service
// disables collection; the scrape endpoint itself is not observed.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// FullPath is empty for unmatched routes; fall back to the raw path
		// so 404s still show up, at the cost of cardinality.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
