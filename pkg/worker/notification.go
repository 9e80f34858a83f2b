package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/pkg/logger"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
	"github.com/jwalitptl/kiliniks-api/pkg/metrics"
)

// Notifier delivers a rendered notification.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type NotificationConfig struct {
	Channel       string
	Recipients    []string
	RetryAttempts int
	RetryDelay    time.Duration
}

func (c NotificationConfig) validate() error {
	switch {
	case c.Channel == "":
		return errors.New("channel is required")
	case len(c.Recipients) == 0:
		return errors.New("at least one recipient is required")
	case c.RetryAttempts <= 0:
		return errors.New("retry attempts must be greater than 0")
	case c.RetryDelay < 0:
		return errors.New("retry delay must not be negative")
	}
	return nil
}

// NotificationWorker turns appointment events from a broker into e-mails.
type NotificationWorker struct {
	broker   messaging.Broker
	notifier Notifier
	config   NotificationConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewNotificationWorker(
	broker messaging.Broker,
	notifier Notifier,
	config NotificationConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) (*NotificationWorker, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid notification worker config: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NotificationWorker{
		broker:   broker,
		notifier: notifier,
		config:   config,
		logger:   log,
		metrics:  m,
	}, nil
}

// Start consumes the channel until ctx is done or the subscription closes.
// A message that cannot be handled is logged and counted, never redelivered.
func (w *NotificationWorker) Start(ctx context.Context) error {
	messages, err := w.broker.Subscribe(ctx, w.config.Channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.config.Channel, err)
	}

	w.logger.Info("Starting notification worker", "channel", w.config.Channel)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down notification worker")
			return nil
		case data, ok := <-messages:
			if !ok {
				w.logger.Info("Subscription closed")
				return nil
			}
			if err := w.Handle(ctx, data); err != nil {
				w.logger.Error(err, "Failed to handle message")
			}
		}
	}
}

func (w *NotificationWorker) Handle(ctx context.Context, data []byte) error {
	start := time.Now()

	env, err := messaging.DecodeEnvelope(data)
	if err != nil {
		w.metrics.WorkerFailed("undecodable")
		return err
	}

	subject, body, err := render(env)
	if err != nil {
		w.metrics.WorkerFailed(env.Type)
		return err
	}
	if subject == "" {
		w.logger.Debug("Ignoring event", "event_type", env.Type)
		return nil
	}

	err = retry(ctx, w.config.RetryAttempts, w.config.RetryDelay, func() error {
		return w.notifier.Send(ctx, w.config.Recipients, subject, body)
	}, func(attempt int, err error) {
		w.logger.Warn(err, "Retrying notification", "event_type", env.Type, "attempt", attempt)
	})
	if err != nil {
		w.metrics.WorkerFailed(env.Type)
		return fmt.Errorf("failed to notify %s after %d attempts: %w", env.Type, w.config.RetryAttempts, err)
	}

	w.metrics.WorkerProcessed(env.Type, start)
	return nil
}

// render returns an empty subject for events that produce no notification.
func render(env *messaging.Envelope) (string, string, error) {
	switch env.Type {
	case model.EventAppointmentCreated, model.EventAppointmentUpdated:
		var apt model.Appointment
		if err := json.Unmarshal(env.Payload, &apt); err != nil {
			return "", "", fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
		}
		verb := "scheduled"
		if env.Type == model.EventAppointmentUpdated {
			verb = "updated"
		}
		subject := fmt.Sprintf("Appointment %s: %s", verb, apt.PatientName)

		var b strings.Builder
		fmt.Fprintf(&b, "Patient: %s\n", apt.PatientName)
		fmt.Fprintf(&b, "Doctor: %s\n", apt.DoctorName)
		fmt.Fprintf(&b, "Date: %s\n", apt.Date.Format(time.RFC1123))
		fmt.Fprintf(&b, "Status: %s\n", apt.Status)
		if apt.Notes != nil {
			fmt.Fprintf(&b, "Notes: %s\n", *apt.Notes)
		}
		fmt.Fprintf(&b, "Reference: %s\n", apt.ID)
		return subject, b.String(), nil

	case model.EventAppointmentDeleted:
		var evt model.AppointmentDeletedEvent
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			return "", "", fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
		}
		return "Appointment removed", fmt.Sprintf("Appointment %s was deleted.\n", evt.ID), nil
	}
	return "", "", nil
}

func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error, onRetry func(int, error)) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		onRetry(i+1, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
