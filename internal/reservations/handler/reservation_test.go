package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentals/internal/reservations/engine"
	"rentals/internal/reservations/pricing"
	"rentals/internal/reservations/service"
	"rentals/pkg/contracts"
	apperrors "rentals/pkg/errors"
	httputil "rentals/pkg/http"
	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createdResponse struct {
	Data struct {
		ID       string          `json:"id"`
		Category model.Category  `json:"category"`
		Price    decimal.Decimal `json:"price"`
	} `json:"data"`
}

type listResponse struct {
	Data       []model.Reservation `json:"data"`
	TotalCount int                 `json:"total_count"`
}

func newTestRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	table, err := engine.NewCapacityTable(map[model.Category]int{
		model.CategorySedan: 2,
		model.CategorySUV:   1,
		model.CategoryVan:   0,
	})
	require.NoError(t, err)

	policy := pricing.NewFlatRate(map[model.Category]decimal.Decimal{
		model.CategorySedan: decimal.NewFromInt(10),
		model.CategorySUV:   decimal.NewFromInt(20),
		model.CategoryVan:   decimal.NewFromInt(30),
	}, 5, decimal.RequireFromString("0.9"))

	svc := service.NewPricedReservationService(engine.New(table), policy, nil, logger.Discard())
	router := httprouter.New()
	NewReservationHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreate_Success(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/api/v1/reservations", `{"category":" sedan ","start":"2025-01-10T10:00:00Z","days":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.ID)
	assert.Equal(t, model.CategorySedan, body.Data.Category)
	assert.True(t, body.Data.Price.Equal(decimal.NewFromInt(45)), "got %s", body.Data.Price)
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"category":`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"unknown field", `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":1,"unit":"A1"}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"unknown category", `{"category":"TRUCK","start":"2025-01-10T10:00:00Z","days":1}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"category with digit", `{"category":"SED4AN","start":"2025-01-10T10:00:00Z","days":1}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"category with separators", `{"category":"S-U-V","start":"2025-01-10T10:00:00Z","days":1}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"zero days", `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":0}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"missing start", `{"category":"SEDAN","days":2}`, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"no capacity", `{"category":"VAN","start":"2025-01-10T10:00:00Z","days":1}`, http.StatusConflict, apperrors.CodeNoAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestRouter(t), http.MethodPost, "/api/v1/reservations", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeErrorBody(t, rec).Code)
		})
	}
}

func TestCreate_CapacityExhausted(t *testing.T) {
	router := newTestRouter(t)
	body := `{"category":"SUV","start":"2025-01-10T10:00:00Z","days":3}`

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/reservations", body).Code)
	rec := do(router, http.MethodPost, "/api/v1/reservations", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetAll(t *testing.T) {
	router := newTestRouter(t)
	do(router, http.MethodPost, "/api/v1/reservations", `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":1}`)
	do(router, http.MethodPost, "/api/v1/reservations", `{"category":"SUV","start":"2025-01-10T10:00:00Z","days":1}`)

	var all listResponse
	rec := do(router, http.MethodGet, "/api/v1/reservations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 2, all.TotalCount)
	assert.Len(t, all.Data, 2)

	var suvs listResponse
	rec = do(router, http.MethodGet, "/api/v1/reservations?category=suv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suvs))
	require.Len(t, suvs.Data, 1)
	assert.Equal(t, model.CategorySUV, suvs.Data[0].Category)

	rec = do(router, http.MethodGet, "/api/v1/reservations?category=truck", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/reservations?category=s-u-v", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAll_EmptyIsArray(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodGet, "/api/v1/reservations", "")
	assert.JSONEq(t, `{"data":[],"total_count":0}`, rec.Body.String())
}

func TestDelete(t *testing.T) {
	router := newTestRouter(t)
	rec := do(router, http.MethodPost, "/api/v1/reservations", `{"category":"SUV","start":"2025-01-10T10:00:00Z","days":2}`)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(router, http.MethodDelete, "/api/v1/reservations/id/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/reservations/id/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, decodeErrorBody(t, rec).Code)

	rec = do(router, http.MethodPost, "/api/v1/reservations", `{"category":"SUV","start":"2025-01-10T10:00:00Z","days":2}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAvailability(t *testing.T) {
	router := newTestRouter(t)
	do(router, http.MethodPost, "/api/v1/reservations", `{"category":"SEDAN","start":"2025-01-10T10:00:00Z","days":3}`)

	rec := do(router, http.MethodGet, "/api/v1/availability?category=SEDAN&start=2025-01-11T10:00:00Z&days=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data engine.Availability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Capacity)
	assert.Equal(t, 1, body.Data.Overlapping)
	assert.Equal(t, 1, body.Data.Remaining)
}

func TestAvailability_BadParameters(t *testing.T) {
	router := newTestRouter(t)
	for _, target := range []string{
		"/api/v1/availability?category=SEDAN&start=yesterday&days=1",
		"/api/v1/availability?category=SEDAN&start=2025-01-11T10:00:00Z&days=two",
		"/api/v1/availability?category=SEDAN&start=2025-01-11T10:00:00Z&days=-1",
		"/api/v1/availability?start=2025-01-11T10:00:00Z&days=1",
	} {
		rec := do(router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHealth(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(map[string]contracts.ReadinessCheck{
		"engine": func(context.Context) error { return nil },
	}, logger.Discard()).RegisterRoutes(router)

	rec := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"engine":"ok"}}`, rec.Body.String())
}

func TestReady_FailingCheck(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(map[string]contracts.ReadinessCheck{
		"events": func(context.Context) error { return errors.New("no brokers") },
	}, logger.Discard()).RegisterRoutes(router)

	rec := do(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"events":"error"`)
}
