package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder relays bus events to a Kafka topic, one message per event,
// keyed by the event key so all events of one resource share a partition.
type KafkaForwarder struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaForwarder(brokers []string, topic string) *KafkaForwarder {
	return NewKafkaForwarderWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func NewKafkaForwarderWithWriter(writer messageWriter) *KafkaForwarder {
	return &KafkaForwarder{writer: writer, timeout: 5 * time.Second}
}

// Run consumes events until the channel closes or ctx is cancelled.
// Delivery failures are logged and the event is skipped.
func (f *KafkaForwarder) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := f.Forward(ctx, e); err != nil {
				slog.Warn("kafka forward failed", "type", e.Type, "key", e.Key, "error", err)
			}
		}
	}
}

func (f *KafkaForwarder) Forward(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	err = f.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}

func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}
