// Package service contains the business logic for the travel budget API.
// Services validate inputs, enforce business rules, and orchestrate repo,
// exchange-rate, and audit-log calls. No SQL lives here — services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyunwoo-p/tripbudget/internal/currency"
	"github.com/hyunwoo-p/tripbudget/internal/domain"
	"github.com/hyunwoo-p/tripbudget/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip.
//
// The trip's local currency is resolved from the country reference data at
// creation time and is immutable afterwards. Returns domain.ErrValidation
// when the budget is not positive or the country has no known currency.
func (s *TripService) Create(ctx context.Context, countryCode string, budget float64) (domain.Trip, error) {
	if budget <= 0 {
		return domain.Trip{}, fmt.Errorf("%w: budget must be positive", domain.ErrValidation)
	}
	ccy, ok := currency.CountryCurrency(countryCode)
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: no currency known for country %q", domain.ErrValidation, countryCode)
	}

	trip := domain.Trip{
		CountryCode: countryCode,
		Currency:    ccy,
		Budget:      budget,
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips plus the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}
