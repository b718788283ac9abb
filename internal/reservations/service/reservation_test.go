package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentals/internal/reservations/engine"
	reservationserrors "rentals/internal/reservations/errors"
	"rentals/internal/reservations/events"
	"rentals/internal/reservations/pricing"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// VAN has capacity but no daily rate, so pricing a VAN always fails.
func newTestService(t *testing.T, publisher events.Publisher) (ReservationService, *engine.Engine) {
	t.Helper()
	table, err := engine.NewCapacityTable(map[model.Category]int{
		model.CategorySedan: 2,
		model.CategorySUV:   1,
		model.CategoryVan:   1,
	})
	require.NoError(t, err)
	e := engine.New(table)

	policy := pricing.NewFlatRate(map[model.Category]decimal.Decimal{
		model.CategorySedan: decimal.NewFromInt(10),
		model.CategorySUV:   decimal.NewFromInt(20),
	}, 5, decimal.RequireFromString("0.9"))

	return NewPricedReservationService(e, policy, publisher, nil), e
}

func TestReserveWithPrice(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _ := newTestService(t, publisher)

	priced, err := svc.ReserveWithPrice(context.Background(), model.CategorySedan, start, 5)
	require.NoError(t, err)
	assert.True(t, priced.Price.Equal(decimal.NewFromInt(45)), "got %s", priced.Price)
	assert.Equal(t, model.CategorySedan, priced.Category)

	priced, err = svc.ReserveWithPrice(context.Background(), model.CategorySedan, start, 3)
	require.NoError(t, err)
	assert.True(t, priced.Price.Equal(decimal.NewFromInt(30)), "got %s", priced.Price)

	require.Len(t, publisher.events, 2)
	require.NotNil(t, publisher.events[0].Price)
	assert.True(t, publisher.events[0].Price.Equal(decimal.NewFromInt(45)))
}

func TestReserveWithPrice_EngineErrorSkipsPricing(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _ := newTestService(t, publisher)

	_, err := svc.ReserveWithPrice(context.Background(), model.CategorySUV, start, 2)
	require.NoError(t, err)

	_, err = svc.ReserveWithPrice(context.Background(), model.CategorySUV, start.Add(time.Hour), 1)
	assert.True(t, errors.Is(err, reservationserrors.ErrNoAvailability))
	assert.Len(t, publisher.events, 1)

	_, err = svc.ReserveWithPrice(context.Background(), model.CategorySUV, start, 0)
	assert.True(t, errors.Is(err, reservationserrors.ErrInvalidArgument))
}

func TestReserveWithPrice_PricingFailureRollsBack(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, e := newTestService(t, publisher)

	_, err := svc.ReserveWithPrice(context.Background(), model.CategoryVan, start, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reservationserrors.ErrConfiguration))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfiguration))

	assert.Empty(t, e.ListAll())
	assert.Empty(t, publisher.events)

	// the single VAN unit is free again
	_, err = svc.Reserve(context.Background(), model.CategoryVan, start, 2)
	assert.NoError(t, err)
}

func TestReserveAndCancel_PublishEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _ := newTestService(t, publisher)

	r, err := svc.Reserve(context.Background(), model.CategoryVan, start, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), r.ID))

	assert.Equal(t, []events.Type{events.TypeReservationCreated, events.TypeReservationCancelled}, publisher.types())
	assert.Equal(t, r.ID, publisher.events[1].ReservationID)
	assert.Equal(t, model.CategoryVan, publisher.events[1].Category)
	assert.Nil(t, publisher.events[0].Price)
}

func TestCancel_NotFoundPublishesNothing(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _ := newTestService(t, publisher)

	err := svc.Cancel(context.Background(), "missing")
	assert.True(t, errors.Is(err, reservationserrors.ErrNotFound))
	assert.Empty(t, publisher.events)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	svc, e := newTestService(t, &recordingPublisher{err: errors.New("broker down")})

	priced, err := svc.ReserveWithPrice(context.Background(), model.CategorySedan, start, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), priced.ID))
	assert.Empty(t, e.ListAll())
}

func TestReadOperations(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, model.CategorySedan, start, 2)
	require.NoError(t, err)

	assert.Len(t, svc.ListAll(ctx), 1)

	sedans, err := svc.List(ctx, model.CategorySedan)
	require.NoError(t, err)
	assert.Len(t, sedans, 1)

	availability, err := svc.Availability(ctx, model.CategorySedan, start.Add(24*time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, availability.Capacity)
	assert.Equal(t, 1, availability.Remaining)
}
