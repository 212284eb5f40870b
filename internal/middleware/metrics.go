package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/metrics"
)

// Metrics records request counts, latency and in-flight requests
func Metrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rec.InFlight(1)
		defer rec.InFlight(-1)

		c.Next()

		rec.ObserveHTTP(routeLabel(c), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
