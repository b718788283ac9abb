package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Capacities map[model.Category]int
	DailyRates map[model.Category]decimal.Decimal

	DiscountThresholdDays int
	DiscountMultiplier    decimal.Decimal
	PricingStrategy       string
	BillingRounding       string
	PricingTiers          string
	PricingSeasons        string

	EventsEnabled        bool
	EventsTopic          string
	EventsQueueSize      int
	EventsPublishTimeout time.Duration

	Log *logger.Logger

	parseErrors []string
}

// Load reads the configuration from the environment and exits the process
// when it is invalid.
func Load(serviceName string) *Config {
	cfg, err := Parse(serviceName)
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Parse reads the configuration from the environment. The returned Config is
// never nil, so its logger can report the error.
func Parse(serviceName string) (*Config, error) {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Capacities: make(map[model.Category]int),
		DailyRates: make(map[model.Category]decimal.Decimal),

		DiscountThresholdDays: getEnvNum(EnvDiscountThresholdDays, DefaultDiscountThresholdDays),
		DiscountMultiplier:    getEnvDecimal(EnvDiscountMultiplier, decimal.RequireFromString(DefaultDiscountMultiplier)),
		PricingStrategy:       getEnvStr(EnvPricingStrategy, DefaultPricingStrategy),
		BillingRounding:       getEnvStr(EnvBillingRounding, DefaultBillingRounding),
		PricingTiers:          getEnvStr(EnvPricingTiers, DefaultPricingTiers),
		PricingSeasons:        getEnvStr(EnvPricingSeasons, DefaultPricingSeasons),

		EventsEnabled:        getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:          getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		EventsQueueSize:      getEnvNum(EnvEventsQueueSize, DefaultEventsQueueSize),
		EventsPublishTimeout: getEnvDuration(EnvEventsPublishTimeout, DefaultEventsPublishTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	for _, category := range model.Categories() {
		cfg.Capacities[category] = cfg.requireEnvNum(EnvCapacityPrefix+category.String(), DefaultCapacities[category])
		cfg.DailyRates[category] = cfg.requireEnvDecimal(EnvDailyRatePrefix+category.String(), decimal.RequireFromString(DefaultDailyRates[category]))
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	errors := append([]string(nil), cfg.parseErrors...)

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	for _, category := range model.Categories() {
		if capacity, ok := cfg.Capacities[category]; !ok || capacity < 0 {
			errors = append(errors, fmt.Sprintf("Capacity for %s must be set and non-negative, got: %d", category, capacity))
		}
		if rate, ok := cfg.DailyRates[category]; !ok || rate.IsNegative() {
			errors = append(errors, fmt.Sprintf("Daily rate for %s must be set and non-negative, got: %s", category, rate))
		}
	}

	if cfg.DiscountThresholdDays < 1 {
		errors = append(errors, fmt.Sprintf("DiscountThresholdDays must be at least 1, got: %d", cfg.DiscountThresholdDays))
	}
	if !cfg.DiscountMultiplier.IsPositive() {
		errors = append(errors, fmt.Sprintf("DiscountMultiplier must be positive, got: %s", cfg.DiscountMultiplier))
	}

	if cfg.EventsEnabled && strings.TrimSpace(cfg.EventsTopic) == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if cfg.EventsQueueSize < 1 {
		errors = append(errors, fmt.Sprintf("EventsQueueSize must be at least 1, got: %d", cfg.EventsQueueSize))
	}

	if cfg.EventsPublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("EventsPublishTimeout must be positive, got: %v", cfg.EventsPublishTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"capacities", cfg.Capacities,
		"daily_rates", cfg.DailyRates,
		"discount_threshold_days", cfg.DiscountThresholdDays,
		"discount_multiplier", cfg.DiscountMultiplier,
		"pricing_strategy", cfg.PricingStrategy,
		"billing_rounding", cfg.BillingRounding,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
		"events_queue_size", cfg.EventsQueueSize,
		"events_publish_timeout", cfg.EventsPublishTimeout,
	)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// requireEnvNum is getEnvNum for keys where a malformed value must fail
// validation instead of falling back to the default.
func (cfg *Config) requireEnvNum(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		cfg.parseErrors = append(cfg.parseErrors, fmt.Sprintf("%s must be an integer, got: %q", key, value))
		return fallback
	}
	return n
}

func (cfg *Config) requireEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		cfg.parseErrors = append(cfg.parseErrors, fmt.Sprintf("%s must be a decimal number, got: %q", key, value))
		return fallback
	}
	return d
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}
