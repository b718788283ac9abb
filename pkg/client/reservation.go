package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rentals/internal/reservations/engine"
	"rentals/pkg/middleware"
	"rentals/pkg/model"
)

// ReservationClient is a typed client for the reservations HTTP API.
type ReservationClient struct {
	httpClient *HttpClient
}

func NewReservationClient(baseURL string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type reserveBody struct {
	Category model.Category `json:"category"`
	Start    time.Time      `json:"start"`
	Days     int            `json:"days"`
}

// Reserve books and prices a reservation. A non-empty idempotencyKey makes
// retries of the same call safe.
func (c *ReservationClient) Reserve(ctx context.Context, category model.Category, start time.Time, days int, idempotencyKey string) (model.PricedReservation, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
	}

	resp, err := c.httpClient.POST(ctx, "/api/v1/reservations", reserveBody{
		Category: category,
		Start:    start,
		Days:     days,
	}, headers)
	if err != nil {
		return model.PricedReservation{}, err
	}

	var wrapper struct {
		Data model.PricedReservation `json:"data"`
	}
	if err := decode(resp, &wrapper); err != nil {
		return model.PricedReservation{}, err
	}
	return wrapper.Data, nil
}

// List returns active reservations, filtered to categories when any are given.
func (c *ReservationClient) List(ctx context.Context, categories ...model.Category) ([]model.Reservation, error) {
	path := "/api/v1/reservations"
	if len(categories) > 0 {
		names := make([]string, 0, len(categories))
		for _, category := range categories {
			names = append(names, category.String())
		}
		path += "?category=" + url.QueryEscape(strings.Join(names, ","))
	}

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Data []model.Reservation `json:"data"`
	}
	if err := decode(resp, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Data, nil
}

func (c *ReservationClient) Cancel(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return resp.Err()
}

func (c *ReservationClient) Availability(ctx context.Context, category model.Category, start time.Time, days int) (engine.Availability, error) {
	q := url.Values{}
	q.Set("category", category.String())
	q.Set("start", start.Format(time.RFC3339))
	q.Set("days", strconv.Itoa(days))

	resp, err := c.httpClient.GET(ctx, "/api/v1/availability?"+q.Encode())
	if err != nil {
		return engine.Availability{}, err
	}

	var wrapper struct {
		Data engine.Availability `json:"data"`
	}
	if err := decode(resp, &wrapper); err != nil {
		return engine.Availability{}, err
	}
	return wrapper.Data, nil
}

func decode(resp *Response, target any) error {
	if err := resp.Err(); err != nil {
		return err
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
