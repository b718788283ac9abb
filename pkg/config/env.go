package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Per-category variables are built as prefix + category, e.g. CAPACITY_SEDAN.
	EnvCapacityPrefix  = "CAPACITY_"
	EnvDailyRatePrefix = "RATE_"

	EnvDiscountThresholdDays = "DISCOUNT_THRESHOLD_DAYS"
	EnvDiscountMultiplier    = "DISCOUNT_MULTIPLIER"
	EnvPricingStrategy       = "PRICING_STRATEGY"
	EnvBillingRounding       = "BILLING_ROUNDING"
	EnvPricingTiers          = "PRICING_TIERS"
	EnvPricingSeasons        = "PRICING_SEASONS"

	EnvEventsEnabled        = "EVENTS_ENABLED"
	EnvEventsTopic          = "EVENTS_TOPIC"
	EnvEventsQueueSize      = "EVENTS_QUEUE_SIZE"
	EnvEventsPublishTimeout = "EVENTS_PUBLISH_TIMEOUT"
)
