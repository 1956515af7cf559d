package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaForwarder_Forward(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	forwarder := NewKafkaForwarderWithWriter(writer)

	e := New(TypeProductCreated, "12", map[string]any{"name": "Pen"})
	require.NoError(t, forwarder.Forward(context.Background(), e))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "12", string(msg.Key))
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, string(TypeProductCreated), string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, e.ID, decoded.ID)
	require.Equal(t, TypeProductCreated, decoded.Type)
}

func TestKafkaForwarder_RunDrainsUntilClosed(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	forwarder := NewKafkaForwarderWithWriter(writer)

	bus := NewBus()
	events, unsubscribe := bus.Subscribe()

	bus.Publish(New(TypeProductCreated, "1", nil))
	bus.Publish(New(TypeProductDeleted, "1", nil))
	unsubscribe()

	forwarder.Run(context.Background(), events)

	require.Len(t, writer.messages, 2)
	require.NoError(t, forwarder.Close())
	require.True(t, writer.closed)
}

func TestKafkaForwarder_WriteErrorIsReturned(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{err: errors.New("broker down")}
	forwarder := NewKafkaForwarderWithWriter(writer)

	err := forwarder.Forward(context.Background(), New(TypeUserRegistered, "3", nil))
	require.ErrorContains(t, err, "broker down")
}
