package service

import (
	"context"
	"time"

	"rentals/internal/reservations/engine"
	"rentals/internal/reservations/events"
	"rentals/internal/reservations/pricing"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

// Engine is the booking core the service drives.
type Engine interface {
	Reserve(category model.Category, start time.Time, days int) (model.Reservation, error)
	Remove(id string) (model.Reservation, error)
	ListAll() []model.Reservation
	List(category model.Category) ([]model.Reservation, error)
	Availability(category model.Category, start time.Time, days int) (engine.Availability, error)
}

type ReservationService interface {
	Reserve(ctx context.Context, category model.Category, start time.Time, days int) (model.Reservation, error)
	ReserveWithPrice(ctx context.Context, category model.Category, start time.Time, days int) (model.PricedReservation, error)
	Cancel(ctx context.Context, id string) error
	ListAll(ctx context.Context) []model.Reservation
	List(ctx context.Context, category model.Category) ([]model.Reservation, error)
	Availability(ctx context.Context, category model.Category, start time.Time, days int) (engine.Availability, error)
}

type reservationService struct {
	engine    Engine
	policy    pricing.Policy
	publisher events.Publisher
	log       *logger.Logger
}

func NewPricedReservationService(
	engine Engine,
	policy pricing.Policy,
	publisher events.Publisher,
	log *logger.Logger,
) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &reservationService{
		engine:    engine,
		policy:    policy,
		publisher: publisher,
		log:       log.Component("reservation_service"),
	}
}

func (s *reservationService) Reserve(ctx context.Context, category model.Category, start time.Time, days int) (model.Reservation, error) {
	reservation, err := s.engine.Reserve(category, start, days)
	if err != nil {
		return model.Reservation{}, err
	}

	s.publish(ctx, events.Created(reservation))
	return reservation, nil
}

// ReserveWithPrice books first and prices second. A reservation that cannot be
// priced is cancelled again, so callers never hold an unpriced booking.
func (s *reservationService) ReserveWithPrice(ctx context.Context, category model.Category, start time.Time, days int) (model.PricedReservation, error) {
	reservation, err := s.engine.Reserve(category, start, days)
	if err != nil {
		return model.PricedReservation{}, err
	}

	price, err := s.policy.CalculatePrice(reservation)
	if err != nil {
		s.log.Error("Pricing failed, rolling back reservation",
			"id", reservation.ID,
			"category", reservation.Category,
			"error", err,
		)
		if _, rollbackErr := s.engine.Remove(reservation.ID); rollbackErr != nil {
			s.log.Error("Failed to roll back unpriced reservation",
				"id", reservation.ID,
				"error", rollbackErr,
			)
		}
		return model.PricedReservation{}, err
	}

	priced := model.PricedReservation{Reservation: reservation, Price: price}
	s.publish(ctx, events.CreatedWithPrice(priced))

	s.log.Info("Priced reservation created",
		"id", reservation.ID,
		"category", reservation.Category,
		"price", price.String(),
	)
	return priced, nil
}

func (s *reservationService) Cancel(ctx context.Context, id string) error {
	removed, err := s.engine.Remove(id)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Cancelled(removed))
	return nil
}

func (s *reservationService) ListAll(_ context.Context) []model.Reservation {
	return s.engine.ListAll()
}

func (s *reservationService) List(_ context.Context, category model.Category) ([]model.Reservation, error) {
	return s.engine.List(category)
}

func (s *reservationService) Availability(_ context.Context, category model.Category, start time.Time, days int) (engine.Availability, error) {
	return s.engine.Availability(category, start, days)
}

// publish runs on the request path; publishers that talk to a broker are
// wrapped in events.AsyncPublisher so this returns without waiting on I/O.
func (s *reservationService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			"type", event.Type,
			"id", event.ReservationID,
			"error", err,
		)
	}
}
