package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware returns a gin middleware that records metrics for each request.
// Routes are keyed by method and route pattern, so "/users/u1" and
// "/users/u2" aggregate under "/users/:id".
func Middleware(collector *Collector, exporter *PrometheusExporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched route (404); keep them distinguishable.
			path = "unmatched"
		}
		method := c.Request.Method
		route := method + " " + path

		collector.RecordRequest(route)
		if exporter != nil {
			exporter.RecordRequest(method, path)
		}

		duration := time.Since(start).Seconds()
		collector.RecordDuration(route, duration)
		if exporter != nil {
			exporter.RecordDuration(method, path, duration)
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			collector.RecordError(route)
			if exporter != nil {
				exporter.RecordError(method, path)
			}
		}
	}
}
