package middleware

import (
	"time"

	"costservice/internal/metrics"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that matched no registered route, keeping
// label cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency by route template
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
