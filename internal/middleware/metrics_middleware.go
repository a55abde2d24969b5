package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wordduel-api/internal/metrics"
)

// HTTPMetrics пишет длительность запросов в гистограмму. Маршрут берётся шаблоном, а не путём.
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
