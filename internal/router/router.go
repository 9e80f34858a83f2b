package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/handler/health"
	metricshandler "github.com/jwalitptl/kiliniks-api/internal/handler/prometheus"
	"github.com/jwalitptl/kiliniks-api/internal/middleware"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Deps struct {
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Auth     *middleware.AuthMiddleware
	Health   *health.Handler
	Handlers []Handler
}

type Router struct {
	engine *gin.Engine
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.RequestID(deps.Logger),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.ErrorLogger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.Enabled {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("route not found"))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.NewErrorResponse("method not allowed"))
	})

	if deps.Health != nil {
		deps.Health.RegisterRoutes(engine)
	}
	if deps.Gatherer != nil {
		metricshandler.NewHandler(deps.Gatherer).RegisterRoutes(engine)
	}

	api := engine.Group("/api/v1",
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.Timeout(cfg.Server.RequestTimeout),
		deps.Auth.Authenticate(),
	)
	for _, h := range deps.Handlers {
		h.RegisterRoutes(api)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}
