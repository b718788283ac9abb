// Package events publishes reservation lifecycle events. Publishing is
// best-effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

const SchemaVersion = "1"

type Type string

const (
	TypeReservationCreated   Type = "reservation.created"
	TypeReservationCancelled Type = "reservation.cancelled"
)

// Event is the JSON payload written to the events topic.
type Event struct {
	Type          Type             `json:"type"`
	ReservationID string           `json:"reservation_id"`
	Category      model.Category   `json:"category"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

func Created(r model.Reservation) Event {
	return newEvent(TypeReservationCreated, r)
}

func CreatedWithPrice(r model.PricedReservation) Event {
	event := newEvent(TypeReservationCreated, r.Reservation)
	price := r.Price
	event.Price = &price
	return event
}

func Cancelled(r model.Reservation) Event {
	return newEvent(TypeReservationCancelled, r)
}

func newEvent(t Type, r model.Reservation) Event {
	return Event{
		Type:          t,
		ReservationID: r.ID,
		Category:      r.Category,
		Start:         r.Start,
		End:           r.End,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
