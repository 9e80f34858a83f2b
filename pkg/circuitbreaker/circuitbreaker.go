package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

// ErrOpen is returned without calling the guarded function while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name             string
	MaxRequests      uint32        // requests allowed through while half-open
	Interval         time.Duration // window after which closed-state counts reset
	Timeout          time.Duration // how long the breaker stays open
	FailureThreshold uint32        // consecutive failures that trip the breaker
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings, m *metrics.Metrics) *CircuitBreaker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			m.SetBreakerState(name, stateValue(to))
		},
	})
	m.SetBreakerState(settings.Name, 0)

	return &CircuitBreaker{cb: cb}
}

func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
