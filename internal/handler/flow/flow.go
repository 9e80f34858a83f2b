package flow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/model"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

func (h *Handler) CreateFlow(c *gin.Context) {
	var input model.CreateFlowInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.CreatedBy = handler.Subject(c)

	flow, err := h.service.CreateFlow(c.Request.Context(), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(flow))
}

func (h *Handler) GetFlow(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	flow, err := h.service.GetFlow(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(flow))
}

func (h *Handler) UpdateFlow(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var input model.UpdateFlowInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.UpdatedBy = subjectPtr(c)

	flow, err := h.service.UpdateFlow(c.Request.Context(), id, input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(flow))
}

func (h *Handler) ListFlows(c *gin.Context) {
	params, ok := bindPagination(c)
	if !ok {
		return
	}

	page, err := h.service.ListFlows(c.Request.Context(), params)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(page))
}

func (h *Handler) DeleteFlow(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteFlow(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

func bindPagination(c *gin.Context) (model.PaginationParams, bool) {
	var params model.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		handler.RespondError(c, apperrors.BadRequest("limit and offset must be integers", err))
		return params, false
	}
	return params.Normalize(), true
}

func subjectPtr(c *gin.Context) *string {
	subject := handler.Subject(c)
	if subject == "" {
		return nil
	}
	return &subject
}
