package flow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/model"
)

func (h *Handler) CreateStage(c *gin.Context) {
	var input model.CreateStageInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.CreatedBy = handler.Subject(c)

	stage, err := h.service.CreateStage(c.Request.Context(), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(stage))
}

func (h *Handler) GetStage(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	stage, err := h.service.GetStage(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stage))
}

// UpdateStage replaces salesItems or locationIds only when they are present in
// the body; an empty array clears them.
func (h *Handler) UpdateStage(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var input model.UpdateStageInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.UpdatedBy = subjectPtr(c)

	stage, err := h.service.UpdateStage(c.Request.Context(), id, input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stage))
}

func (h *Handler) ListStagesByFlow(c *gin.Context) {
	flowID, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	stages, err := h.service.ListStagesByFlow(c.Request.Context(), flowID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stages))
}

func (h *Handler) DeleteStage(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteStage(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
