package pricing

import (
	"fmt"
	"slices"

	reservationserrors "rentals/internal/reservations/errors"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

// Tier sets the daily rate from FromDay (1-based) until the next tier begins.
type Tier struct {
	FromDay   int
	DailyRate decimal.Decimal
}

// Tiered charges each billed day at the rate of the tier it falls into.
type Tiered struct {
	tiers    map[model.Category][]Tier
	rounding Rounding
}

func NewTiered(tiers map[model.Category][]Tier, opts ...Option) (*Tiered, error) {
	o := buildOptions(opts)
	normalized := make(map[model.Category][]Tier, len(tiers))

	for category, list := range tiers {
		if len(list) == 0 {
			continue
		}
		sorted := slices.Clone(list)
		slices.SortFunc(sorted, func(a, b Tier) int { return a.FromDay - b.FromDay })

		if sorted[0].FromDay != 1 {
			return nil, tierError(fmt.Sprintf("First tier for %s must start at day 1, got %d", category, sorted[0].FromDay))
		}
		for i, tier := range sorted {
			if tier.DailyRate.IsNegative() {
				return nil, tierError(fmt.Sprintf("Tier rate for %s must be non-negative", category))
			}
			if i > 0 && tier.FromDay == sorted[i-1].FromDay {
				return nil, tierError(fmt.Sprintf("Duplicate tier start day %d for %s", tier.FromDay, category))
			}
		}
		normalized[category] = sorted
	}

	return &Tiered{tiers: normalized, rounding: o.rounding}, nil
}

func (p *Tiered) CalculatePrice(reservation model.Reservation) (decimal.Decimal, error) {
	tiers, ok := p.tiers[reservation.Category]
	if !ok {
		return decimal.Zero, missingRate(reservation.Category)
	}

	days, err := billedDaysOrError(reservation, p.rounding)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i, tier := range tiers {
		if tier.FromDay > days {
			break
		}
		last := days
		if i+1 < len(tiers) && tiers[i+1].FromDay-1 < last {
			last = tiers[i+1].FromDay - 1
		}
		span := int64(last - tier.FromDay + 1)
		total = total.Add(tier.DailyRate.Mul(decimal.NewFromInt(span)))
	}
	return total, nil
}

func tierError(message string) error {
	return apperrors.Configuration(message, reservationserrors.ErrConfiguration)
}
