package prometheus

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes a registry in the Prometheus text format.
type Handler struct {
	gatherer prometheus.Gatherer
}

func NewHandler(gatherer prometheus.Gatherer) *Handler {
	return &Handler{gatherer: gatherer}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/metrics", h.Handler())
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
