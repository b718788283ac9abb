package events

import (
	"context"
	"fmt"

	"rentals/pkg/kafka"
)

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

// Publish keys the message by category so a category's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(string(event.Category)).
		WithValue(event).
		WithEventID("").
		WithEventType(string(event.Type)).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for reservation %s: %w", event.Type, event.ReservationID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
