package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher sends a named domain event. Callers treat failures as
// non-fatal and only log them.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Envelope is the wire format of every event put on a broker.
type Envelope struct {
	Type        string          `json:"type"`
	Source      string          `json:"source"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"publishedAt"`
}

func NewEnvelope(source, eventType string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		Type:        eventType,
		Source:      source,
		Payload:     data,
		PublishedAt: time.Now().UTC(),
	}, nil
}

func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope has no type")
	}
	return &env, nil
}
