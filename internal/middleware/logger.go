package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/logger"
)

// loggerKey is the Gin context key under which the per-request logger
// is stored.
const loggerKey = "logger"

// Logger writes one structured entry per request after the handler
// chain finishes. It also stashes a request-scoped child logger in the
// context so handlers can log with the request ID attached.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLogger := log.WithRequestID(GetRequestID(c))
		c.Set(loggerKey, requestLogger)

		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields["query"] = query
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			requestLogger.Error("Request completed with server error", nil, fields)
		case status >= 400:
			requestLogger.Warn("Request completed with client error", fields)
		default:
			requestLogger.Info("Request completed", fields)
		}
	}
}

// GetLogger returns the request-scoped logger, or nil when the Logger
// middleware has not run.
func GetLogger(c *gin.Context) *logger.Logger {
	if v, exists := c.Get(loggerKey); exists {
		if log, ok := v.(*logger.Logger); ok {
			return log
		}
	}
	return nil
}
