package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xtra/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	RouteKey    = "route"
	FileNameKey = "fileName"
	FileSizeKey = "fileSize"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for _, key := range []string{RouteKey, FileNameKey, FileSizeKey} {
			if v, ok := c.Get(key); ok {
				fields[key] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
