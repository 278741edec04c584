// Package reservations exposes the typed reservation operations the
// dashboard performs against the remote API: list, fetch, create, update,
// and soft-cancel bookings, plus the read-only aggregates. Reads go through
// the client's retry policy; mutations always make exactly one attempt.
package reservations

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/dinehall/go-dinehall/config"
	"github.com/dinehall/go-dinehall/httpclient"
	"github.com/dinehall/go-dinehall/logger"
)

const basePath = "/reservations"

// Service is the reservation resource client.
type Service struct {
	client   httpclient.Client
	validate *validator.Validate
}

// New creates a Service on top of an existing client.
func New(client httpclient.Client) *Service {
	return &Service{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewFromConfig wires a Service from loaded configuration.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	client, err := httpclient.New(httpclient.Config{
		BaseURL:      cfg.API.BaseURL,
		APIKey:       cfg.API.Key,
		APIKeyHeader: cfg.API.KeyHeader,
		Timeout:      cfg.API.Timeout,
		Retry: httpclient.RetryPolicy{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
		},
		RequestsPerSecond: cfg.Rate.RequestsPerSecond,
		Burst:             cfg.Rate.Burst,
		Breaker: httpclient.BreakerConfig{
			Enabled:          cfg.Breaker.Enabled,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			MinRequests:      cfg.Breaker.MinRequests,
		},
		LogPayloads:        cfg.Log.Payloads,
		MaxPayloadLogBytes: cfg.Log.MaxPayloadBytes,
	}, log)
	if err != nil {
		return nil, err
	}
	return New(client), nil
}

// List returns reservations matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	return s.getList(ctx, basePath, filter.query())
}

// Today returns the reservations for the current day.
func (s *Service) Today(ctx context.Context) ([]Reservation, error) {
	return s.getList(ctx, basePath+"/today", nil)
}

// Stats returns the dashboard aggregates.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	resp, err := s.client.Get(ctx, &httpclient.Request{Path: basePath + "/stats"})
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Get fetches a single reservation by ID.
func (s *Service) Get(ctx context.Context, id string) (*Reservation, error) {
	if id == "" {
		return nil, fmt.Errorf("reservations: id is required")
	}
	resp, err := s.client.Get(ctx, &httpclient.Request{Path: idPath(id)})
	if err != nil {
		return nil, err
	}
	return decodeReservation(resp)
}

// Create books a new reservation. The payload is validated locally before
// any network call.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("reservations: invalid create request: %w", err)
	}
	resp, err := s.client.Post(ctx, &httpclient.Request{Path: basePath, Body: req})
	if err != nil {
		return nil, err
	}
	return decodeReservation(resp)
}

// Update partially updates a reservation. Nil fields are left unchanged.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Reservation, error) {
	if id == "" {
		return nil, fmt.Errorf("reservations: id is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("reservations: invalid update request: %w", err)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, fmt.Errorf("reservations: unknown status %q", *req.Status)
	}
	resp, err := s.client.Patch(ctx, &httpclient.Request{Path: idPath(id), Body: req})
	if err != nil {
		return nil, err
	}
	return decodeReservation(resp)
}

// Cancel soft-cancels a reservation.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("reservations: id is required")
	}
	_, err := s.client.Delete(ctx, &httpclient.Request{Path: idPath(id)})
	return err
}

func (s *Service) getList(ctx context.Context, path string, query url.Values) ([]Reservation, error) {
	resp, err := s.client.Get(ctx, &httpclient.Request{Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	var list []Reservation
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func idPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func decodeReservation(resp *httpclient.Response) (*Reservation, error) {
	var r Reservation
	if err := resp.Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
