package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "rentals/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", apperrors.InvalidInput("bad"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"no availability", apperrors.NoAvailability("full"), http.StatusConflict, apperrors.CodeNoAvailability},
		{"not found", apperrors.NotFoundWithID("Reservation", "x"), http.StatusNotFound, apperrors.CodeNotFound},
		{"configuration", apperrors.Configuration("no rate", nil), http.StatusInternalServerError, apperrors.CodeConfiguration},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteError(rec, tt.err))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, apperrors.Internal("db password leaked", errors.New("x"))))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestWriteCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteCreated(rec, map[string]string{"id": "1"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"1"}}`, rec.Body.String())
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteList(rec, []int{}, 0))
	assert.JSONEq(t, `{"data":[],"total_count":0}`, rec.Body.String())
}
