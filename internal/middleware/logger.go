package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/kiliniks-api/pkg/logger"
)

// Logger writes one access log line per request. Server errors log at error,
// client errors at warn.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		zl := log.WithContext(c.Request.Context()).Zerolog()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = zl.Error()
		case status >= 400:
			event = zl.Warn()
		default:
			event = zl.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("Request processed")
	}
}
