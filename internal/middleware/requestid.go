package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/pkg/logger"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"

	maxRequestIDLength = 128
)

// RequestID tags each request with an id, reusing a sane incoming header, and
// stores a request-scoped zerolog logger in the request context.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.New().String()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)

		zl := log.Zerolog().With().Str("request_id", rid).Logger()
		c.Request = c.Request.WithContext(zl.WithContext(c.Request.Context()))

		c.Next()
	}
}
