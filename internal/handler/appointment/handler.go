package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/model"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

type Service interface {
	CreateAppointment(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, input model.UpdateAppointmentInput) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	ListAppointments(ctx context.Context) ([]*model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if subject := handler.Subject(c); subject != "" {
		input.CreatedBy = &subject
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	apts, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apts))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), id, input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
