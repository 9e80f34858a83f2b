package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

// Metrics records request count and latency labelled by route template, so
// ids in the path do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
