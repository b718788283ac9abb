package pricing

import (
	"fmt"
	"maps"
	"time"

	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

// MonthDay is a calendar date without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) ordinal() int {
	return int(md.Month)*100 + md.Day
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// Season scales the daily rate for billed days between From and To inclusive.
// A season whose From is after its To wraps over the new year.
type Season struct {
	From       MonthDay
	To         MonthDay
	Multiplier decimal.Decimal
}

func (s Season) contains(t time.Time) bool {
	md := MonthDay{Month: t.Month(), Day: t.Day()}.ordinal()
	from, to := s.From.ordinal(), s.To.ordinal()
	if from <= to {
		return md >= from && md <= to
	}
	return md >= from || md <= to
}

// Seasonal prices each billed day at the category's daily rate, multiplied by
// the first season whose range holds the day's start date.
type Seasonal struct {
	dailyRates map[model.Category]decimal.Decimal
	seasons    []Season
	rounding   Rounding
}

func NewSeasonal(dailyRates map[model.Category]decimal.Decimal, seasons []Season, opts ...Option) *Seasonal {
	o := buildOptions(opts)
	return &Seasonal{
		dailyRates: maps.Clone(dailyRates),
		seasons:    append([]Season(nil), seasons...),
		rounding:   o.rounding,
	}
}

func (p *Seasonal) CalculatePrice(reservation model.Reservation) (decimal.Decimal, error) {
	rate, ok := p.dailyRates[reservation.Category]
	if !ok {
		return decimal.Zero, missingRate(reservation.Category)
	}

	days, err := billedDaysOrError(reservation, p.rounding)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := 0; i < days; i++ {
		dayStart := reservation.Start.AddDate(0, 0, i)
		total = total.Add(rate.Mul(p.multiplier(dayStart)))
	}
	return total, nil
}

func (p *Seasonal) multiplier(t time.Time) decimal.Decimal {
	for _, s := range p.seasons {
		if s.contains(t) {
			return s.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}
