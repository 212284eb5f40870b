package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
)

// HeaderRequestID carries the correlation ID in both directions
const HeaderRequestID = "X-Request-ID"

// RequestLogger assigns a request ID, stores a request-scoped logger in the
// context and logs one line per request when it finishes.
func RequestLogger(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader(HeaderRequestID))
		requestID := logger.RequestIDFromContext(ctx)
		ctx = logger.WithLogger(ctx, base.WithContext(ctx))
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("route", routeLabel(c)),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.Int("bytes", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		// Auth may have replaced the logger with a user-scoped one
		log := logger.FromContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// routeLabel prefers the registered route template to keep metric and log
// cardinality low
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
