package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"rentals/pkg/kafka"
	"rentals/pkg/model"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafkago.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func testReservation(t *testing.T) model.Reservation {
	t.Helper()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	r, err := model.NewReservationWithID("res-1", model.CategorySUV, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	return r
}

func TestKafkaPublisher_PublishCreated(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(kafka.NewProducerWithWriter(writer, "reservations.events"), "rentals")

	priced := model.PricedReservation{Reservation: testReservation(t), Price: decimal.RequireFromString("140")}
	require.NoError(t, publisher.Publish(context.Background(), CreatedWithPrice(priced)))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "SUV", string(msg.Key))
	assert.Equal(t, string(TypeReservationCreated), header(msg, kafka.HeaderEventType))
	assert.Equal(t, "rentals", header(msg, kafka.HeaderSource))
	assert.Equal(t, SchemaVersion, header(msg, kafka.HeaderSchemaVersion))
	assert.NotEmpty(t, header(msg, kafka.HeaderEventID))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "res-1", decoded.ReservationID)
	assert.Equal(t, model.CategorySUV, decoded.Category)
	require.NotNil(t, decoded.Price)
	assert.True(t, decoded.Price.Equal(decimal.NewFromInt(140)))
}

func TestKafkaPublisher_CancelledHasNoPrice(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(kafka.NewProducerWithWriter(writer, "reservations.events"), "rentals")

	require.NoError(t, publisher.Publish(context.Background(), Cancelled(testReservation(t))))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, string(TypeReservationCancelled), header(writer.messages[0], kafka.HeaderEventType))
	assert.NotContains(t, string(writer.messages[0].Value), `"price"`)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	writer := &recordingWriter{err: errors.New("dial tcp: connection refused")}
	publisher := NewKafkaPublisher(kafka.NewProducerWithWriter(writer, "reservations.events"), "rentals")

	err := publisher.Publish(context.Background(), Created(testReservation(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "res-1")
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}

func TestKafkaPublisher_ClosedProducer(t *testing.T) {
	publisher := NewKafkaPublisher(kafka.NewProducerWithWriter(&recordingWriter{}, "t"), "rentals")
	require.NoError(t, publisher.Close())

	err := publisher.Publish(context.Background(), Created(testReservation(t)))
	assert.ErrorIs(t, err, kafka.ErrProducerClosed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Created(testReservation(t))))
	assert.NoError(t, p.Close())
}
