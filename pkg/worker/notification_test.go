package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/kiliniks-api/internal/model"
	"github.com/jwalitptl/kiliniks-api/pkg/messaging"
)

type chanBroker struct {
	ch chan []byte
}

func (b *chanBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.ch <- data
	return nil
}

func (b *chanBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return b.ch, nil
}

func (b *chanBroker) Close() error {
	close(b.ch)
	return nil
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeNotifier struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []sentMail
}

func (n *fakeNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.calls <= n.failures {
		return errors.New("smtp: 421 service not available")
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func testConfig() NotificationConfig {
	return NotificationConfig{
		Channel:       "kiliniks.events",
		Recipients:    []string{"front-desk@kiliniks.test"},
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func envelope(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	env, err := messaging.NewEnvelope("kiliniks.api", eventType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return data
}

func TestNewNotificationWorker_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients = nil

	_, err := NewNotificationWorker(&chanBroker{}, &fakeNotifier{}, cfg, nil, nil)
	assert.Error(t, err)
}

func TestHandle_AppointmentCreated(t *testing.T) {
	n := &fakeNotifier{}
	w, err := NewNotificationWorker(&chanBroker{}, n, testConfig(), nil, nil)
	require.NoError(t, err)

	apt := model.Appointment{
		ID:          uuid.New(),
		PatientName: "John",
		DoctorName:  "Dr. Smith",
		Date:        time.Date(2023, 10, 10, 0, 0, 0, 0, time.UTC),
		Status:      model.AppointmentStatusScheduled,
	}

	require.NoError(t, w.Handle(context.Background(), envelope(t, model.EventAppointmentCreated, apt)))
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Appointment scheduled: John", n.sent[0].subject)
	assert.Contains(t, n.sent[0].body, "Dr. Smith")
	assert.Contains(t, n.sent[0].body, apt.ID.String())
	assert.Equal(t, []string{"front-desk@kiliniks.test"}, n.sent[0].to)
}

func TestHandle_AppointmentDeleted(t *testing.T) {
	n := &fakeNotifier{}
	w, err := NewNotificationWorker(&chanBroker{}, n, testConfig(), nil, nil)
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, w.Handle(context.Background(), envelope(t, model.EventAppointmentDeleted, model.AppointmentDeletedEvent{ID: id})))
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0].body, id.String())
}

func TestHandle_RetriesThenSucceeds(t *testing.T) {
	n := &fakeNotifier{failures: 2}
	w, err := NewNotificationWorker(&chanBroker{}, n, testConfig(), nil, nil)
	require.NoError(t, err)

	err = w.Handle(context.Background(), envelope(t, model.EventAppointmentUpdated, model.Appointment{PatientName: "John"}))
	require.NoError(t, err)
	assert.Equal(t, 3, n.calls)
	assert.Len(t, n.sent, 1)
}

func TestHandle_GivesUpAfterRetries(t *testing.T) {
	n := &fakeNotifier{failures: 10}
	w, err := NewNotificationWorker(&chanBroker{}, n, testConfig(), nil, nil)
	require.NoError(t, err)

	err = w.Handle(context.Background(), envelope(t, model.EventAppointmentUpdated, model.Appointment{PatientName: "John"}))
	require.Error(t, err)
	assert.Equal(t, 3, n.calls)
}

func TestHandle_IgnoresUnknownEvents(t *testing.T) {
	n := &fakeNotifier{}
	w, err := NewNotificationWorker(&chanBroker{}, n, testConfig(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), envelope(t, "StageCreated", map[string]string{"id": "x"})))
	assert.Zero(t, n.calls)
}

func TestHandle_Undecodable(t *testing.T) {
	w, err := NewNotificationWorker(&chanBroker{}, &fakeNotifier{}, testConfig(), nil, nil)
	require.NoError(t, err)

	assert.Error(t, w.Handle(context.Background(), []byte("not json")))
	assert.Error(t, w.Handle(context.Background(), envelope(t, model.EventAppointmentCreated, "just a string")))
}

func TestStart_ConsumesUntilClosed(t *testing.T) {
	broker := &chanBroker{ch: make(chan []byte, 2)}
	n := &fakeNotifier{}
	w, err := NewNotificationWorker(broker, n, testConfig(), nil, nil)
	require.NoError(t, err)

	pub := messaging.NewBrokerPublisher(broker, "kiliniks.events", "kiliniks.api")
	require.NoError(t, pub.Publish(context.Background(), model.EventAppointmentCreated, model.Appointment{PatientName: "Ann"}))
	require.NoError(t, pub.Publish(context.Background(), model.EventAppointmentDeleted, model.AppointmentDeletedEvent{ID: uuid.New()}))
	require.NoError(t, broker.Close())

	require.NoError(t, w.Start(context.Background()))
	assert.Len(t, n.sent, 2)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	broker := &chanBroker{ch: make(chan []byte)}
	w, err := NewNotificationWorker(broker, &fakeNotifier{}, testConfig(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, w.Start(ctx))
}
