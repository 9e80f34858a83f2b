package flow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/model"
)

func (h *Handler) CreateLocation(c *gin.Context) {
	var input model.CreateLocationInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.CreatedBy = handler.Subject(c)

	loc, err := h.service.CreateLocation(c.Request.Context(), input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(loc))
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	loc, err := h.service.GetLocation(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(loc))
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var input model.UpdateLocationInput
	if !handler.BindJSON(c, &input) {
		return
	}
	input.UpdatedBy = subjectPtr(c)

	loc, err := h.service.UpdateLocation(c.Request.Context(), id, input)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(loc))
}

func (h *Handler) ListLocations(c *gin.Context) {
	params, ok := bindPagination(c)
	if !ok {
		return
	}

	page, err := h.service.ListLocations(c.Request.Context(), params)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(page))
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
