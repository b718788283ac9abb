package config

import (
	"time"

	"rentals/pkg/model"
)

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 10 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDiscountThresholdDays = 7
	DefaultDiscountMultiplier    = "0.9"
	DefaultPricingStrategy       = "flat"
	DefaultBillingRounding       = "ceil"
	DefaultPricingTiers          = "4:0.9,8:0.8"
	DefaultPricingSeasons        = "06-15..09-15:1.25,12-20..01-05:1.5"

	DefaultEventsEnabled        = false
	DefaultEventsTopic          = "reservations.events"
	DefaultEventsQueueSize      = 1024
	DefaultEventsPublishTimeout = 5 * time.Second
)

var DefaultCapacities = map[model.Category]int{
	model.CategorySedan: 10,
	model.CategorySUV:   5,
	model.CategoryVan:   3,
}

var DefaultDailyRates = map[model.Category]string{
	model.CategorySedan: "50",
	model.CategorySUV:   "70",
	model.CategoryVan:   "90",
}
