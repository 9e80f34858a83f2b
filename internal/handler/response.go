package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
	apivalidator "github.com/jwalitptl/kiliniks-api/pkg/validator"
)

// ContextSubject is the gin context key holding the authenticated caller.
const ContextSubject = "subject"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		apivalidator.UseJSONNames(v)
	}
}

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes the error envelope and records err on the context so
// the error middleware can log the full cause.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apperrors.HTTPStatus(err), NewErrorResponse(apperrors.PublicMessage(err)))
}

// BindJSON binds and validates the body, writing a 400 on failure.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondError(c, apperrors.BadRequest(apivalidator.Message(err), err))
		return false
	}
	return true
}

// ParseID reads a uuid path parameter, writing a 400 when it is malformed.
func ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, apperrors.BadRequest(fmt.Sprintf("invalid %s", param), err))
		return uuid.Nil, false
	}
	return id, true
}

// Subject returns the caller identity set by the auth middleware.
func Subject(c *gin.Context) string {
	return c.GetString(ContextSubject)
}
