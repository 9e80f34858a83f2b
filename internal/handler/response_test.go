package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NotFound("stage", nil), http.StatusNotFound, "stage not found"},
		{"bad request", apperrors.BadRequest("name is required", nil), http.StatusBadRequest, "name is required"},
		{"conflict", apperrors.Conflict("duplicate sales item id", nil), http.StatusConflict, "duplicate sales item id"},
		{"storage failure", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.message, resp.Message)
			assert.Len(t, c.Errors, 1)
		})
	}
}

type bindTarget struct {
	Name   string `json:"name" binding:"required"`
	Status string `json:"status" binding:"omitempty,oneof=A B"`
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		message string
	}{
		{"valid", `{"name":"Triage"}`, true, ""},
		{"missing required", `{}`, false, "name is required"},
		{"bad enum", `{"name":"x","status":"C"}`, false, "status must be one of [A B]"},
		{"wrong type", `{"name":5}`, false, "name must be of type string"},
		{"malformed", `{"name":`, false, "malformed JSON body"},
		{"empty", ``, false, "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			assert.Equal(t, tt.ok, BindJSON(c, &target))
			if tt.ok {
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, w).Message)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := ParseID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decode(t, w).Message)
}
