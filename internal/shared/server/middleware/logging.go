package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

// Context keys handlers may set so the request log carries domain ids.
const (
	ResumeIDKey   = "resumeId"
	AnalysisIDKey = "analysisId"
)

// quietRoutes are polled constantly and only logged at debug level.
var quietRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logging emits one structured line per request. Server errors log at error
// level and client errors at warn.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.ObserveRequest(c.FullPath(), status, elapsed)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"path":        c.Request.URL.Path,
			"status":      status,
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(elapsed.Microseconds()) / 1000,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := c.GetString(ResumeIDKey); id != "" {
			fields["resume_id"] = id
		}
		if id := c.GetString(AnalysisIDKey); id != "" {
			fields["analysis_id"] = id
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Log(requestLevel(c.FullPath(), status), "request.complete", fields)
	}
}

func requestLevel(route string, status int) telemetry.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return telemetry.LevelError
	case status >= http.StatusBadRequest:
		return telemetry.LevelWarn
	case quietRoutes[route]:
		return telemetry.LevelDebug
	default:
		return telemetry.LevelInfo
	}
}
