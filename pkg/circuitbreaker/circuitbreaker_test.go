package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", FailureThreshold: 2, Timeout: time.Minute}, nil)
	boom := errors.New("boom")

	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
	assert.Equal(t, "open", cb.State())
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", FailureThreshold: 2}, nil)
	boom := errors.New("boom")

	_ = cb.Execute(func() error { return boom })
	assert.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return boom })

	assert.Equal(t, "closed", cb.State())
}
