package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
	"github.com/hyunwoo-p/tripbudget/internal/repo"
)

// ExportService assembles a full flat export of all trips and their expenses.
type ExportService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, expenses repo.ExpenseRepo) *ExportService {
	return &ExportService{trips: trips, expenses: expenses}
}

// Export returns one ExportRow per expense across all trips.
// Trips with no expenses contribute one row with zero expense fields.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, trip := range trips {
		expenses, err := s.expenses.ListByTripID(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: trip %s: %w", trip.ID, err)
		}

		base := domain.ExportRow{
			TripID:        trip.ID.String(),
			CountryCode:   trip.CountryCode,
			Currency:      trip.Currency,
			Budget:        trip.Budget,
			TripRemaining: trip.Remaining,
			TripCreatedAt: trip.CreatedAt.UTC().Format(time.RFC3339),
		}

		if len(expenses) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range expenses {
			row := base
			row.LocalAmount = e.LocalAmount
			row.HomeAmount = e.HomeAmount
			row.Note = e.Note
			row.RemainingAfter = e.RemainingAfter
			row.RecordedAt = e.CreatedAt.UTC().Format(time.RFC3339)
			rows = append(rows, row)
		}
	}

	return rows, nil
}
