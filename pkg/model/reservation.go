package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCategory  = errors.New("reservation category is not a known category")
	ErrMissingID        = errors.New("reservation id must not be empty")
	ErrMissingTimeRange = errors.New("reservation start and end must be set")
	ErrInvalidTimeRange = errors.New("reservation end must be after start")
)

// Reservation books one unit of a category for the half-open interval [Start, End).
// It only counts against capacity; it never names a physical unit.
type Reservation struct {
	ID       string    `json:"id"`
	Category Category  `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// NewReservation creates a reservation with a freshly generated id.
func NewReservation(category Category, start, end time.Time) (Reservation, error) {
	return NewReservationWithID(uuid.NewString(), category, start, end)
}

// NewReservationWithID is meant for tests that need deterministic ids.
func NewReservationWithID(id string, category Category, start, end time.Time) (Reservation, error) {
	if id == "" {
		return Reservation{}, ErrMissingID
	}
	if !category.Valid() {
		return Reservation{}, ErrInvalidCategory
	}
	if start.IsZero() || end.IsZero() {
		return Reservation{}, ErrMissingTimeRange
	}
	if !end.After(start) {
		return Reservation{}, ErrInvalidTimeRange
	}
	return Reservation{
		ID:       id,
		Category: category,
		Start:    start,
		End:      end,
	}, nil
}

// Overlaps reports whether [start, end) shares any instant with the reservation.
// Back-to-back intervals do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.End) && r.Start.Before(end)
}

func (r Reservation) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Equal compares by id only.
func (r Reservation) Equal(other Reservation) bool {
	return r.ID == other.ID
}

type PricedReservation struct {
	Reservation
	Price decimal.Decimal `json:"price"`
}
