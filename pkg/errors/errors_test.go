package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("stage", nil), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", NotFound("flow", nil)), http.StatusNotFound},
		{"bad request", BadRequest("invalid id", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"conflict", Conflict("duplicate", nil), http.StatusConflict},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "appointment not found", PublicMessage(NotFound("appointment", nil)))
	assert.Equal(t, "internal server error", PublicMessage(Internal(errors.New("pq: password authentication failed"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := BadRequest("invalid body", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid body: cause", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NotFound("stage", nil))))
	assert.False(t, IsNotFound(err))
}
