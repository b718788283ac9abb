package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	reservationserrors "rentals/internal/reservations/errors"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	StrategyFlat     = "flat"
	StrategyTiered   = "tiered"
	StrategySeasonal = "seasonal"
)

// NewFromConfig builds the policy named by cfg.PricingStrategy.
func NewFromConfig(cfg *config.Config) (Policy, error) {
	rounding, err := ParseRounding(cfg.BillingRounding)
	if err != nil {
		return nil, configError(err)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.PricingStrategy)) {
	case StrategyFlat, "":
		return NewFlatRate(cfg.DailyRates, cfg.DiscountThresholdDays, cfg.DiscountMultiplier, WithRounding(rounding)), nil

	case StrategyTiered:
		factors, err := ParseTierFactors(cfg.PricingTiers)
		if err != nil {
			return nil, configError(err)
		}
		tiers := make(map[model.Category][]Tier, len(cfg.DailyRates))
		for category, rate := range cfg.DailyRates {
			list := []Tier{{FromDay: 1, DailyRate: rate}}
			for _, f := range factors {
				list = append(list, Tier{FromDay: f.FromDay, DailyRate: rate.Mul(f.DailyRate)})
			}
			tiers[category] = list
		}
		return NewTiered(tiers, WithRounding(rounding))

	case StrategySeasonal:
		seasons, err := ParseSeasons(cfg.PricingSeasons)
		if err != nil {
			return nil, configError(err)
		}
		return NewSeasonal(cfg.DailyRates, seasons, WithRounding(rounding)), nil

	default:
		return nil, configError(fmt.Errorf("unknown pricing strategy %q", cfg.PricingStrategy))
	}
}

// ParseTierFactors reads "4:0.9,8:0.8": from day 4 the daily rate is scaled by
// 0.9, from day 8 by 0.8. The returned tiers carry the factor in DailyRate.
func ParseTierFactors(s string) ([]Tier, error) {
	var tiers []Tier
	for _, part := range splitList(s) {
		dayStr, factorStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("tier %q must look like <day>:<factor>", part)
		}
		fromDay, err := strconv.Atoi(strings.TrimSpace(dayStr))
		if err != nil || fromDay < 2 {
			return nil, fmt.Errorf("tier %q must start at day 2 or later", part)
		}
		factor, err := decimal.NewFromString(strings.TrimSpace(factorStr))
		if err != nil || factor.IsNegative() {
			return nil, fmt.Errorf("tier %q has an invalid factor", part)
		}
		tiers = append(tiers, Tier{FromDay: fromDay, DailyRate: factor})
	}
	return tiers, nil
}

// ParseSeasons reads "06-01..08-31:1.25,12-20..01-05:1.5".
func ParseSeasons(s string) ([]Season, error) {
	var seasons []Season
	for _, part := range splitList(s) {
		span, multStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("season %q must look like MM-DD..MM-DD:<multiplier>", part)
		}
		fromStr, toStr, ok := strings.Cut(span, "..")
		if !ok {
			return nil, fmt.Errorf("season %q must look like MM-DD..MM-DD:<multiplier>", part)
		}
		from, err := parseMonthDay(fromStr)
		if err != nil {
			return nil, fmt.Errorf("season %q: %w", part, err)
		}
		to, err := parseMonthDay(toStr)
		if err != nil {
			return nil, fmt.Errorf("season %q: %w", part, err)
		}
		mult, err := decimal.NewFromString(strings.TrimSpace(multStr))
		if err != nil || mult.IsNegative() {
			return nil, fmt.Errorf("season %q has an invalid multiplier", part)
		}
		seasons = append(seasons, Season{From: from, To: to, Multiplier: mult})
	}
	return seasons, nil
}

func parseMonthDay(s string) (MonthDay, error) {
	// 2024 is a leap year, so 02-29 parses.
	t, err := time.Parse("2006-01-02", "2024-"+strings.TrimSpace(s))
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid month-day %q", s)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func configError(err error) error {
	return apperrors.Configuration(err.Error(), reservationserrors.ErrConfiguration)
}
