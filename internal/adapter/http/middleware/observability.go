package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

// LoggingMiddleware logs one line per request. Query strings are left out
// since they may carry tokens.
func LoggingMiddleware(logger *config.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		current := GetCurrent(c)

		if requestID := current.RequestID(); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if accountID, ok := current.Account(); ok {
			fields = append(fields, zap.String("account_id", accountID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.ErrorWithTrace(c.Request.Context(), "HTTP Request", fields...)
			return
		case status >= 400:
			logger.WarnWithTrace(c.Request.Context(), "HTTP Request", fields...)
			return
		}

		logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
	}
}

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
