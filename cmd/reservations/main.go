package main

import (
	"context"
	"fmt"

	"rentals/internal/reservations/engine"
	"rentals/internal/reservations/events"
	"rentals/internal/reservations/handler"
	"rentals/internal/reservations/pricing"
	"rentals/internal/reservations/service"
	"rentals/pkg/app"
	"rentals/pkg/config"
	"rentals/pkg/contracts"
	"rentals/pkg/kafka"
	kafka_config "rentals/pkg/kafka/config"
	kafka_middleware "rentals/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Reservations service")
	reservationEngine, reservationService, publisher := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(map[string]contracts.ReadinessCheck{
			"engine": engineReady(reservationEngine),
		}, cfg.Log),
		handler.NewReservationHandler(reservationService, cfg.Log),
	)
	serverApp.OnShutdown(publisher)
	serverApp.Run()
}

func initServices(cfg *config.Config) (*engine.Engine, service.ReservationService, events.Publisher) {
	capacities, err := engine.NewCapacityTable(cfg.Capacities)
	if err != nil {
		cfg.Log.Fatal("Invalid capacity table", "error", err)
	}

	policy, err := pricing.NewFromConfig(cfg)
	if err != nil {
		cfg.Log.Fatal("Invalid pricing configuration", "error", err)
	}

	reservationEngine := engine.New(capacities, engine.WithLogger(cfg.Log))
	publisher := initPublisher(cfg)

	reservationService := service.NewPricedReservationService(
		reservationEngine,
		policy,
		publisher,
		cfg.Log,
	)

	cfg.Log.Info("Reservation service initialized",
		"capacities", capacities.Capacities(),
		"pricing_strategy", cfg.PricingStrategy,
		"events_enabled", cfg.EventsEnabled,
	)
	return reservationEngine, reservationService, publisher
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log.Component("kafka")))
	}

	return events.NewAsyncPublisher(
		events.NewKafkaPublisher(producer, ServiceName),
		cfg.Log.Component("events"),
		cfg.EventsQueueSize,
		cfg.EventsPublishTimeout,
	)
}

// engineReady fails while no category has any capacity to book.
func engineReady(e *engine.Engine) contracts.ReadinessCheck {
	return func(context.Context) error {
		for _, capacity := range e.Capacities().Capacities() {
			if capacity > 0 {
				return nil
			}
		}
		return fmt.Errorf("no category has capacity configured")
	}
}
