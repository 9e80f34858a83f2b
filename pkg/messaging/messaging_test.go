package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	channel string
	message interface{}
	err     error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.channel = channel
	b.message = message
	return b.err
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *recordingBroker) Close() error { return nil }

func TestBrokerPublisher_WrapsPayload(t *testing.T) {
	broker := &recordingBroker{}
	pub := NewBrokerPublisher(broker, "kiliniks.events", "kiliniks.api")

	err := pub.Publish(context.Background(), "AppointmentDeleted", map[string]string{"id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "kiliniks.events", broker.channel)
	env, ok := broker.message.(*Envelope)
	require.True(t, ok)
	assert.Equal(t, "AppointmentDeleted", env.Type)
	assert.Equal(t, "kiliniks.api", env.Source)
	assert.JSONEq(t, `{"id":"42"}`, string(env.Payload))
	assert.False(t, env.PublishedAt.IsZero())
}

func TestBrokerPublisher_PropagatesBrokerError(t *testing.T) {
	broker := &recordingBroker{err: errors.New("redis down")}
	pub := NewBrokerPublisher(broker, "c", "s")

	err := pub.Publish(context.Background(), "AppointmentCreated", struct{}{})
	assert.EqualError(t, err, "redis down")
}

func TestEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEnvelope("kiliniks.api", "AppointmentCreated", map[string]string{"patientName": "John"})
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env.Type, decoded.Type)
	assert.JSONEq(t, string(env.Payload), string(decoded.Payload))
}

func TestDecodeEnvelope_RejectsUntyped(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"payload":{}}`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestConsolePublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewConsolePublisher(zerolog.New(&buf))

	require.NoError(t, pub.Publish(context.Background(), "AppointmentCreated", map[string]string{"status": "SCHEDULED"}))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "[EventPublished]", entry["message"])
	assert.Equal(t, "AppointmentCreated", entry["event"])
	assert.Equal(t, map[string]interface{}{"status": "SCHEDULED"}, entry["payload"])
}
