package events

import (
	"context"
	"fmt"

	"github.com/jwalitptl/kiliniks-api/internal/config"
	"github.com/jwalitptl/kiliniks-api/pkg/circuitbreaker"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging/eventbridge"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging/redis"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging/servicebus"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

const (
	DriverConsole     = "console"
	DriverRedis       = "redis"
	DriverServiceBus  = "servicebus"
	DriverEventBridge = "eventbridge"
)

func breakerSettings(name string, cfg config.BreakerConfig) circuitbreaker.Settings {
	return circuitbreaker.Settings{
		Name:             name,
		MaxRequests:      cfg.MaxRequests,
		Interval:         cfg.Interval,
		Timeout:          cfg.Timeout,
		FailureThreshold: cfg.FailureThreshold,
	}
}

// NewBroker connects to the broker named by cfg.Driver. The console and
// eventbridge drivers are publish-only and have no broker.
func NewBroker(ctx context.Context, cfg config.EventsConfig, log *logger.Logger, m *metrics.Metrics) (messaging.Broker, error) {
	switch cfg.Driver {
	case DriverRedis:
		cb := circuitbreaker.NewCircuitBreaker(breakerSettings("redis", cfg.Breaker), m)
		return redis.NewRedisBroker(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, cb, log.Zerolog())
	case DriverServiceBus:
		cb := circuitbreaker.NewCircuitBreaker(breakerSettings("servicebus", cfg.Breaker), m)
		return servicebus.NewBroker(servicebus.Config{
			ConnectionString: cfg.ServiceBus.ConnectionString,
			Queue:            cfg.ServiceBus.Queue,
			Source:           cfg.Source,
		}, cb, log.Zerolog())
	case DriverConsole, DriverEventBridge:
		return nil, fmt.Errorf("driver %q has no broker", cfg.Driver)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// NewPublisher returns the publisher for cfg.Driver and a close func that
// releases its broker connection.
func NewPublisher(ctx context.Context, cfg config.EventsConfig, log *logger.Logger, m *metrics.Metrics) (messaging.Publisher, func() error, error) {
	switch cfg.Driver {
	case DriverConsole:
		return messaging.NewConsolePublisher(log.Zerolog()), func() error { return nil }, nil
	case DriverEventBridge:
		client, err := eventbridge.NewClient(ctx, cfg.EventBridge.Region)
		if err != nil {
			return nil, nil, err
		}
		pub, err := newEventBridgePublisher(client, cfg, log, m)
		if err != nil {
			return nil, nil, err
		}
		return pub, func() error { return nil }, nil
	}

	broker, err := NewBroker(ctx, cfg, log, m)
	if err != nil {
		return nil, nil, err
	}
	pub := messaging.NewBrokerPublisher(broker, cfg.Channel, cfg.Source)
	return pub, pub.Close, nil
}

func newEventBridgePublisher(api eventbridge.API, cfg config.EventsConfig, log *logger.Logger, m *metrics.Metrics) (*eventbridge.Publisher, error) {
	cb := circuitbreaker.NewCircuitBreaker(breakerSettings("eventbridge", cfg.Breaker), m)
	return eventbridge.NewPublisher(api, eventbridge.Config{
		BusName: cfg.EventBridge.BusName,
		Source:  cfg.Source,
	}, cb, log.Zerolog())
}
