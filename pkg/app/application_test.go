package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentals/internal/reservations/engine"
	"rentals/internal/reservations/events"
	"rentals/internal/reservations/handler"
	"rentals/internal/reservations/pricing"
	"rentals/internal/reservations/service"
	"rentals/pkg/config"
	"rentals/pkg/contracts"
	"rentals/pkg/kafka"
	"rentals/pkg/logger"
	"rentals/pkg/middleware"
	"rentals/pkg/model"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct{ closed int }

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

// blockingWriter holds every write for delay, like a broker under load.
type blockingWriter struct {
	delay time.Duration
}

func (w blockingWriter) WriteMessages(ctx context.Context, _ ...kafkago.Message) error {
	select {
	case <-time.After(w.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (blockingWriter) Close() error { return nil }

func newTestApplication(t *testing.T) (*Application, *closeCounter) {
	t.Helper()
	return newTestApplicationWith(t, time.Second, nil)
}

func newTestApplicationWith(t *testing.T, requestTimeout time.Duration, publisher events.Publisher) (*Application, *closeCounter) {
	t.Helper()
	cfg := &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    requestTimeout,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
	}

	table, err := engine.NewCapacityTable(map[model.Category]int{
		model.CategorySedan: 1,
		model.CategorySUV:   1,
		model.CategoryVan:   1,
	})
	require.NoError(t, err)
	policy := pricing.NewFlatRate(map[model.Category]decimal.Decimal{
		model.CategorySedan: decimal.NewFromInt(50),
		model.CategorySUV:   decimal.NewFromInt(70),
		model.CategoryVan:   decimal.NewFromInt(90),
	}, 7, decimal.RequireFromString("0.9"))
	svc := service.NewPricedReservationService(engine.New(table), policy, publisher, cfg.Log)

	closer := &closeCounter{}
	a := NewApplication(cfg)
	a.SetApp(
		handler.NewHealthHandler(map[string]contracts.ReadinessCheck{
			"engine": func(context.Context) error { return nil },
		}, cfg.Log),
		handler.NewReservationHandler(svc, cfg.Log),
	)
	if publisher != nil {
		a.OnShutdown(publisher)
	}
	a.OnShutdown(closer)
	t.Cleanup(a.Stop)
	return a, closer
}

func post(h http.Handler, body, idempotencyKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApplication_Routes(t *testing.T) {
	a, _ := newTestApplication(t)
	h := a.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(h, `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":2}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestApplication_IdempotentRetryDoesNotDoubleBook(t *testing.T) {
	a, _ := newTestApplication(t)
	h := a.Handler()
	body := `{"category":"VAN","start":"2025-01-10T10:00:00Z","days":2}`

	first := post(h, body, "retry-1")
	second := post(h, body, "retry-1")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	// the only VAN is taken by the first request
	third := post(h, body, "retry-2")
	assert.Equal(t, http.StatusConflict, third.Code)
}

func TestApplication_RejectsNonJSON(t *testing.T) {
	a, _ := newTestApplication(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("category=SEDAN"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestApplication_StopClosesResources(t *testing.T) {
	a, closer := newTestApplication(t)
	a.Stop()
	assert.Equal(t, 1, closer.closed)
}

func TestApplication_SlowBrokerDoesNotFailCommittedBooking(t *testing.T) {
	publisher := events.NewAsyncPublisher(
		events.NewKafkaPublisher(kafka.NewProducerWithWriter(blockingWriter{delay: 300 * time.Millisecond}, "reservations.events"), "rentals"),
		logger.Discard(), 16, time.Second,
	)
	a, _ := newTestApplicationWith(t, 100*time.Millisecond, publisher)

	rec := post(a.Handler(), `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":3}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the only SEDAN stays booked
	rec = post(a.Handler(), `{"category":"SEDAN","start":"2025-01-11T10:00:00Z","days":1}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
