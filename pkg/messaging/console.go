package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// ConsolePublisher writes events to the log instead of a bus. Used for
// local development.
type ConsolePublisher struct {
	logger zerolog.Logger
}

func NewConsolePublisher(logger zerolog.Logger) *ConsolePublisher {
	return &ConsolePublisher{logger: logger}
}

func (p *ConsolePublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	p.logger.Info().
		Str("event", eventType).
		RawJSON("payload", data).
		Msg("[EventPublished]")
	return nil
}
