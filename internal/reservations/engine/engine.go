package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	reservationserrors "rentals/internal/reservations/errors"
	"rentals/internal/reservations/validator"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

// Engine books reservations against a CapacityTable. Each category is guarded by
// its own lock, so work in different categories never contends. Calls never hold
// more than one category lock at a time.
type Engine struct {
	capacities *CapacityTable
	store      *Store
	validator  *validator.ReservationValidator
	log        *logger.Logger
}

type Option func(*Engine)

func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func New(capacities *CapacityTable, opts ...Option) *Engine {
	e := &Engine{
		capacities: capacities,
		store:      NewStore(),
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Component("engine")
	e.validator = validator.NewReservationValidator(e.log)
	return e
}

// Availability describes how many units of a category are free for a window.
type Availability struct {
	Category    model.Category `json:"category"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Capacity    int            `json:"capacity"`
	Overlapping int            `json:"overlapping"`
	Remaining   int            `json:"remaining"`
}

// Reserve books one unit of category for [start, start+days). The end is
// truncated to the minute. It fails with INVALID_INPUT on bad arguments and
// NO_AVAILABILITY when the window is already at capacity.
func (e *Engine) Reserve(category model.Category, start time.Time, days int) (model.Reservation, error) {
	if err := e.validateReserve(category, start, days); err != nil {
		return model.Reservation{}, err
	}

	end := windowEnd(start, days)
	sh, _ := e.store.shard(category)

	reservation, overlapping, err := e.reserveLocked(sh, category, start, end)
	if err != nil {
		e.log.Warn("Reservation rejected",
			"category", category,
			"start", start,
			"end", end,
			"overlapping", overlapping,
			"error", err,
		)
		return model.Reservation{}, err
	}

	e.log.Info("Reservation created",
		"id", reservation.ID,
		"category", category,
		"start", reservation.Start,
		"end", reservation.End,
	)
	return reservation, nil
}

func (e *Engine) reserveLocked(sh *shard, category model.Category, start, end time.Time) (model.Reservation, int, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	overlapping := sh.countOverlapping(start, end)
	if overlapping >= e.capacities.Capacity(category) {
		return model.Reservation{}, overlapping, apperrors.NoAvailability(
			fmt.Sprintf("No available %s units for the requested period", category),
		).WithCause(reservationserrors.ErrNoAvailability)
	}

	reservation, err := model.NewReservation(category, start, end)
	if err != nil {
		return model.Reservation{}, overlapping, invalidArgument(err.Error(), nil)
	}

	sh.insert(reservation)
	return reservation, overlapping, nil
}

// Cancel removes the reservation with the given id.
func (e *Engine) Cancel(id string) error {
	_, err := e.Remove(id)
	return err
}

// Remove cancels the reservation with the given id and returns it. Categories
// are searched one at a time, each under its own lock.
func (e *Engine) Remove(id string) (model.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Reservation{}, invalidArgument("Reservation ID cannot be empty", nil)
	}

	for _, category := range e.store.order {
		sh, _ := e.store.shard(category)
		if removed, ok := e.removeLocked(sh, id); ok {
			e.log.Info("Reservation cancelled",
				"id", id,
				"category", removed.Category,
			)
			return removed, nil
		}
	}

	e.log.Debug("Reservation to cancel not found", "id", id)
	return model.Reservation{}, apperrors.NotFoundWithID("Reservation", id).WithCause(reservationserrors.ErrNotFound)
}

func (e *Engine) removeLocked(sh *shard, id string) (model.Reservation, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.remove(id)
}

// ListAll returns a copy of every active reservation. Each category is copied
// under its own lock; insertion order is kept within a category.
func (e *Engine) ListAll() []model.Reservation {
	var all []model.Reservation
	for _, category := range e.store.order {
		sh, _ := e.store.shard(category)
		all = append(all, sh.snapshot()...)
	}
	if all == nil {
		all = []model.Reservation{}
	}
	return all
}

// List returns a copy of the active reservations of one category.
func (e *Engine) List(category model.Category) ([]model.Reservation, error) {
	if err := e.validator.ValidateCategory(category); err != nil {
		return nil, validationFailure(err)
	}
	sh, _ := e.store.shard(category)
	return sh.snapshot(), nil
}

// Availability reports free units for a prospective reservation without booking it.
func (e *Engine) Availability(category model.Category, start time.Time, days int) (Availability, error) {
	if err := e.validateReserve(category, start, days); err != nil {
		return Availability{}, err
	}

	end := windowEnd(start, days)
	sh, _ := e.store.shard(category)

	sh.mu.Lock()
	overlapping := sh.countOverlapping(start, end)
	sh.mu.Unlock()

	capacity := e.capacities.Capacity(category)
	return Availability{
		Category:    category,
		Start:       start,
		End:         end,
		Capacity:    capacity,
		Overlapping: overlapping,
		Remaining:   max(capacity-overlapping, 0),
	}, nil
}

func (e *Engine) Capacities() *CapacityTable {
	return e.capacities
}

func (e *Engine) validateReserve(category model.Category, start time.Time, days int) error {
	err := e.validator.ValidateReserve(validator.ReserveRequest{
		Category: category,
		Start:    start,
		Days:     days,
	})
	if err != nil {
		e.log.Debug("Reservation validation failed", "error", err)
		return validationFailure(err)
	}
	return nil
}

// windowEnd adds calendar days, so the end keeps the start's wall-clock time
// across daylight saving changes.
func windowEnd(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days).Truncate(time.Minute)
}

func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return invalidArgument("Invalid reservation request", verrs.Fields())
	}
	return invalidArgument(err.Error(), nil)
}

func invalidArgument(message string, details map[string]any) *apperrors.AppError {
	appErr := apperrors.InvalidInput(message).WithCause(reservationserrors.ErrInvalidArgument)
	if details != nil {
		appErr = appErr.WithDetails(details)
	}
	return appErr
}
