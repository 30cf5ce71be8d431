// Package handler implements the HTTP handlers for the travel budget API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, expense.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, countryCode string, budget float64) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// ExpenseServicer defines the business operations the expense handlers depend on.
type ExpenseServicer interface {
	Record(ctx context.Context, tripID uuid.UUID, localAmount float64, note string) (domain.RecordingOutcome, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies for all API endpoints.
// Mount its Routes() on the application router in main.go.
type Server struct {
	trips    TripServicer
	expenses ExpenseServicer
	export   ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, expenses ExpenseServicer, export ExportServicer) *Server {
	return &Server{trips: trips, expenses: expenses, export: export}
}

// Routes returns the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/countries", s.ListCountries)
		r.Get("/export", s.Export)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Post("/expenses", s.RecordExpense)
				r.Get("/expenses", s.ListExpenses)
			})
		})
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tripIDParam extracts and parses the {tripID} URL parameter.
func tripIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "tripID"))
}
