package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Check is one readiness dependency, e.g. the database ping.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

type Handler struct {
	checks []Check
}

func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health/live", h.LivenessCheck)
	r.GET("/health/ready", h.ReadinessCheck)
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	for _, check := range h.checks {
		if err := check.Fn(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"reason": check.Name + " unavailable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
