package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-platform/internal/shared/metrics"
	"resume-platform/internal/shared/telemetry"
)

// Logging emits a structured log line per request and records the
// request duration histogram.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		durationMs := metrics.SinceMillis(start)
		metrics.ObserveRequestDurationMs(durationMs)

		userID, _ := c.Get(userIDKey)
		resumeID, _ := c.Get("resumeId")

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": durationMs,
			"user_id":     userID,
			"resume_id":   resumeID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
