package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/kiliniks-api/pkg/circuitbreaker"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
)

const DefaultSource = "kiliniks.appointments"

// API is the subset of the EventBridge client the publisher uses.
type API interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

type Config struct {
	BusName string
	Source  string
}

// Publisher puts one event per call on an EventBridge bus. The event name
// becomes the detail type and the payload the detail, so bus rules can match
// on appointment fields directly.
type Publisher struct {
	api    API
	bus    string
	source string
	cb     *circuitbreaker.CircuitBreaker
	logger zerolog.Logger
}

var _ messaging.Publisher = (*Publisher)(nil)

func NewClient(ctx context.Context, region string) (*eventbridge.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eventbridge.NewFromConfig(cfg), nil
}

func NewPublisher(api API, cfg Config, cb *circuitbreaker.CircuitBreaker, logger zerolog.Logger) (*Publisher, error) {
	if cfg.BusName == "" {
		return nil, errors.New("event bus name is empty")
	}
	source := cfg.Source
	if source == "" {
		source = DefaultSource
	}
	return &Publisher{
		api:    api,
		bus:    cfg.BusName,
		source: source,
		cb:     cb,
		logger: logger,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	detail, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event detail: %w", err)
	}

	input := &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.bus),
			Source:       aws.String(p.source),
			DetailType:   aws.String(eventType),
			Detail:       aws.String(string(detail)),
		}},
	}

	put := func() error {
		out, err := p.api.PutEvents(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to put event: %w", err)
		}
		return failedEntry(out)
	}

	p.logger.Debug().Str("event", eventType).Str("bus", p.bus).Msg("publishing event")
	if p.cb == nil {
		return put()
	}
	return p.cb.Execute(put)
}

// PutEvents reports rejected entries in the output rather than as an error.
func failedEntry(out *eventbridge.PutEventsOutput) error {
	if out == nil || out.FailedEntryCount == 0 {
		return nil
	}
	for _, e := range out.Entries {
		if e.ErrorCode != nil {
			return fmt.Errorf("event rejected: %s: %s", aws.ToString(e.ErrorCode), aws.ToString(e.ErrorMessage))
		}
	}
	return fmt.Errorf("event rejected: %d failed entries", out.FailedEntryCount)
}
