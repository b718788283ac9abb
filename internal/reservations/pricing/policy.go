// Package pricing computes the price of a reservation. The engine never depends
// on this package; strategies plug in behind Policy.
package pricing

import (
	"fmt"
	"strings"
	"time"

	reservationserrors "rentals/internal/reservations/errors"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type Policy interface {
	CalculatePrice(reservation model.Reservation) (decimal.Decimal, error)
}

// Rounding decides how a partial 24h period is billed.
type Rounding int

const (
	// RoundingCeil bills every started day.
	RoundingCeil Rounding = iota
	// RoundingFloor bills whole days only.
	RoundingFloor
)

const (
	RoundingNameCeil  = "ceil"
	RoundingNameFloor = "floor"
)

func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case RoundingNameCeil, "":
		return RoundingCeil, nil
	case RoundingNameFloor:
		return RoundingFloor, nil
	default:
		return RoundingCeil, fmt.Errorf("unknown billing rounding %q", s)
	}
}

func (r Rounding) String() string {
	if r == RoundingFloor {
		return RoundingNameFloor
	}
	return RoundingNameCeil
}

// BilledDays converts the reservation length into billable calendar days in
// the start's location, so a day shortened or stretched by a DST change still
// counts as one.
func BilledDays(reservation model.Reservation, rounding Rounding) int {
	start, end := reservation.Start, reservation.End
	if !end.After(start) {
		return 0
	}
	days := int(end.Sub(start) / day)
	for days > 0 && start.AddDate(0, 0, days).After(end) {
		days--
	}
	for !start.AddDate(0, 0, days+1).After(end) {
		days++
	}
	if rounding == RoundingCeil && start.AddDate(0, 0, days).Before(end) {
		days++
	}
	return days
}

// billedDaysOrError returns INVALID_INPUT for reservations that bill no days.
func billedDaysOrError(reservation model.Reservation, rounding Rounding) (int, error) {
	days := BilledDays(reservation, rounding)
	if days <= 0 {
		return 0, apperrors.InvalidInput("Reservation duration must be at least 1 day").
			WithCause(reservationserrors.ErrInvalidArgument).
			WithDetails(map[string]any{"id": reservation.ID, "billed_days": days})
	}
	return days, nil
}

func missingRate(category model.Category) error {
	return apperrors.Configuration(
		fmt.Sprintf("No daily rate defined for category %s", category),
		reservationserrors.ErrConfiguration,
	)
}

type options struct {
	rounding Rounding
}

type Option func(*options)

func WithRounding(r Rounding) Option {
	return func(o *options) {
		o.rounding = r
	}
}

func buildOptions(opts []Option) options {
	o := options{rounding: RoundingCeil}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
