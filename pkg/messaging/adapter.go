package messaging

import (
	"context"
)

// BrokerPublisher publishes events as envelopes on a single broker channel.
type BrokerPublisher struct {
	broker  Broker
	channel string
	source  string
}

func NewBrokerPublisher(broker Broker, channel, source string) *BrokerPublisher {
	return &BrokerPublisher{broker: broker, channel: channel, source: source}
}

func (p *BrokerPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	env, err := NewEnvelope(p.source, eventType, payload)
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, p.channel, env)
}

func (p *BrokerPublisher) Close() error {
	return p.broker.Close()
}
