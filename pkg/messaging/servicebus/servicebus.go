package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/kiliniks-api/pkg/circuitbreaker"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
)

type Config struct {
	ConnectionString string
	Queue            string
	Source           string
}

// sender is the part of *azservicebus.Sender the broker needs.
type sender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// Broker sends to, and receives from, a single Service Bus queue. The
// channel arguments of the messaging.Broker interface are ignored.
type Broker struct {
	client *azservicebus.Client
	sender sender
	queue  string
	source string
	cb     *circuitbreaker.CircuitBreaker
	logger zerolog.Logger
}

var _ messaging.Broker = (*Broker)(nil)

func NewBroker(cfg Config, cb *circuitbreaker.CircuitBreaker, logger zerolog.Logger) (*Broker, error) {
	if cfg.ConnectionString == "" {
		return nil, errors.New("service bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	s, err := client.NewSender(cfg.Queue, nil)
	if err != nil {
		client.Close(context.Background())
		return nil, fmt.Errorf("failed to create Service Bus sender: %w", err)
	}

	return &Broker{
		client: client,
		sender: s,
		queue:  cfg.Queue,
		source: cfg.Source,
		cb:     cb,
		logger: logger,
	}, nil
}

func (b *Broker) Publish(ctx context.Context, _ string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message body: %w", err)
	}

	msg := &azservicebus.Message{
		Body:        data,
		ContentType: stringPtr("application/json"),
		ApplicationProperties: map[string]interface{}{
			"source": b.source,
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if env, ok := message.(*messaging.Envelope); ok {
		msg.ApplicationProperties["eventType"] = env.Type
		msg.Subject = stringPtr(env.Type)
	}

	send := func() error {
		return b.sender.SendMessage(ctx, msg, nil)
	}
	if b.cb == nil {
		return send()
	}
	return b.cb.Execute(send)
}

// Subscribe receives from the queue in batches and completes every message
// once it has been handed to the returned channel.
func (b *Broker) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	if b.client == nil {
		return nil, errors.New("service bus client is not configured")
	}
	receiver, err := b.client.NewReceiverForQueue(b.queue, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus receiver: %w", err)
	}

	msgChan := make(chan []byte, 100)
	go func() {
		defer func() {
			receiver.Close(context.Background())
			close(msgChan)
		}()

		for ctx.Err() == nil {
			messages, err := receiver.ReceiveMessages(ctx, 10, nil)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Error().Err(err).Str("queue", b.queue).Msg("failed to receive messages")
				time.Sleep(time.Second)
				continue
			}

			for _, m := range messages {
				select {
				case msgChan <- m.Body:
				case <-ctx.Done():
					return
				}
				if err := receiver.CompleteMessage(ctx, m, nil); err != nil {
					b.logger.Warn().Err(err).Str("message_id", m.MessageID).Msg("failed to complete message")
				}
			}
		}
	}()

	return msgChan, nil
}

func (b *Broker) Close() error {
	if b.sender != nil {
		if err := b.sender.Close(context.Background()); err != nil {
			return err
		}
	}
	if b.client != nil {
		return b.client.Close(context.Background())
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
