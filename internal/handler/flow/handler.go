package flow

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/internal/model"
)

type Service interface {
	CreateFlow(ctx context.Context, input model.CreateFlowInput) (*model.Flow, error)
	GetFlow(ctx context.Context, id uuid.UUID) (*model.Flow, error)
	UpdateFlow(ctx context.Context, id uuid.UUID, input model.UpdateFlowInput) (*model.Flow, error)
	ListFlows(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Flow], error)
	DeleteFlow(ctx context.Context, id uuid.UUID) error

	CreateLocation(ctx context.Context, input model.CreateLocationInput) (*model.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, input model.UpdateLocationInput) (*model.Location, error)
	ListLocations(ctx context.Context, params model.PaginationParams) (*model.Page[*model.Location], error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	CreateStage(ctx context.Context, input model.CreateStageInput) (*model.Stage, error)
	GetStage(ctx context.Context, id uuid.UUID) (*model.Stage, error)
	UpdateStage(ctx context.Context, id uuid.UUID, input model.UpdateStageInput) (*model.Stage, error)
	ListStagesByFlow(ctx context.Context, flowID uuid.UUID) ([]*model.Stage, error)
	DeleteStage(ctx context.Context, id uuid.UUID) error
}

// Handler serves flows, locations and stages.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	flows := r.Group("/flows")
	{
		flows.POST("", h.CreateFlow)
		flows.GET("", h.ListFlows)
		flows.GET("/:id", h.GetFlow)
		flows.PUT("/:id", h.UpdateFlow)
		flows.DELETE("/:id", h.DeleteFlow)
		flows.GET("/:id/stages", h.ListStagesByFlow)
	}

	locations := r.Group("/locations")
	{
		locations.POST("", h.CreateLocation)
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}

	stages := r.Group("/stages")
	{
		stages.POST("", h.CreateStage)
		stages.GET("/:id", h.GetStage)
		stages.PUT("/:id", h.UpdateStage)
		stages.DELETE("/:id", h.DeleteStage)
	}
}
