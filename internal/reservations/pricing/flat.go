package pricing

import (
	"maps"

	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

// FlatRate charges a per-category daily rate and applies a multiplier once the
// billed days reach the discount threshold.
type FlatRate struct {
	dailyRates            map[model.Category]decimal.Decimal
	discountThresholdDays int
	discountMultiplier    decimal.Decimal
	rounding              Rounding
}

func NewFlatRate(dailyRates map[model.Category]decimal.Decimal, discountThresholdDays int, discountMultiplier decimal.Decimal, opts ...Option) *FlatRate {
	o := buildOptions(opts)
	return &FlatRate{
		dailyRates:            maps.Clone(dailyRates),
		discountThresholdDays: discountThresholdDays,
		discountMultiplier:    discountMultiplier,
		rounding:              o.rounding,
	}
}

func (p *FlatRate) CalculatePrice(reservation model.Reservation) (decimal.Decimal, error) {
	rate, ok := p.dailyRates[reservation.Category]
	if !ok {
		return decimal.Zero, missingRate(reservation.Category)
	}

	days, err := billedDaysOrError(reservation, p.rounding)
	if err != nil {
		return decimal.Zero, err
	}

	base := rate.Mul(decimal.NewFromInt(int64(days)))
	if days >= p.discountThresholdDays {
		return base.Mul(p.discountMultiplier), nil
	}
	return base, nil
}
