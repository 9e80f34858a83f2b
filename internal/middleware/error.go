package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
)

// ErrorLogger logs the causes handlers attached with c.Error. Responses are
// already written by then; only the full error chain goes to the log.
func ErrorLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		l := log.WithContext(c.Request.Context())
		for _, e := range c.Errors {
			if apperrors.HTTPStatus(e.Err) >= 500 {
				l.Error(e.Err, "Request failed", "method", c.Request.Method, "path", c.FullPath())
				continue
			}
			l.Debug("Request rejected", "error", e.Err.Error(), "path", c.FullPath())
		}
	}
}
