package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rentals/internal/reservations/service"
	apperrors "rentals/pkg/errors"
	httputil "rentals/pkg/http"
	"rentals/pkg/logger"
	"rentals/pkg/model"
	"rentals/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

// ReserveRequest is the POST /api/v1/reservations body.
type ReserveRequest struct {
	Category string    `json:"category"`
	Start    time.Time `json:"start"`
	Days     int       `json:"days"`
}

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ReserveRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, "Create", decodeError(err))
		return
	}

	category := model.Category(sanitizer.NormalizeCategory(req.Category))
	priced, err := h.service.ReserveWithPrice(r.Context(), category, req.Start, req.Days)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, priced); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// GetAll lists every active reservation, or only those of the comma separated
// categories given in ?category=.
func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categories := sanitizer.SplitList(r.URL.Query().Get("category"), sanitizer.NormalizeCategory)

	if len(categories) == 0 {
		reservations := h.service.ListAll(r.Context())
		if err := httputil.WriteList(w, reservations, len(reservations)); err != nil {
			h.log.Error("failed to write list response", "handler", "GetAll", "operation", "WriteList", "error", err)
		}
		return
	}

	reservations := []model.Reservation{}
	for _, c := range categories {
		found, err := h.service.List(r.Context(), model.Category(c))
		if err != nil {
			h.writeError(w, "GetAll", err)
			return
		}
		reservations = append(reservations, found...)
	}

	if err := httputil.WriteList(w, reservations, len(reservations)); err != nil {
		h.log.Error("failed to write list response", "handler", "GetAll", "operation", "WriteList", "error", err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := sanitizer.NormalizeID(ps.ByName("id"))

	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput("invalid start parameter, must be RFC3339"))
		return
	}

	days, err := strconv.Atoi(query.Get("days"))
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput(fmt.Sprintf("invalid days parameter: %q", query.Get("days"))))
		return
	}

	category := model.Category(sanitizer.NormalizeCategory(query.Get("category")))
	availability, err := h.service.Availability(r.Context(), category, start, days)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if apperrors.HasCode(err, apperrors.CodeConfiguration) || !apperrors.IsAppError(err) {
		h.log.Error("request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperrors.New("REQUEST_TOO_LARGE", "Request body too large", http.StatusRequestEntityTooLarge)
	}
	return apperrors.InvalidInput("Invalid request body").WithDetails(map[string]any{"reason": err.Error()})
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
	router.GET("/api/v1/availability", h.Availability)
}
