package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/pkg/auth"
)

type AuthMiddleware struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

func NewAuthMiddleware(cfg config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		cfg:    cfg,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.Issuer),
	}
}

// Authenticate verifies the bearer token and stores its subject for handlers.
// With auth disabled every request runs as the configured local subject.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.cfg.Enabled {
			c.Set(handler.ContextSubject, m.cfg.LocalSubject)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		subject, err := m.tokens.Verify(token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(handler.ContextSubject, subject)
		c.Next()
	}
}
