package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// CreateTripRequest is the body of POST /api/v1/trips.
type CreateTripRequest struct {
	CountryCode string  `json:"country_code"`
	Budget      float64 `json:"budget"`
}

// ListTripsResponse is the paged body of GET /api/v1/trips.
type ListTripsResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination echoes the effective page parameters plus the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateTrip handles POST /api/v1/trips — the "set budget" operation.
// The budget is committed in the home currency; the trip's local currency is
// resolved from the destination country.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if body.CountryCode == "" {
		writeRequestError(w, "country_code is required")
		return
	}

	created, err := s.trips.Create(r.Context(), body.CountryCode, body.Budget)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /api/v1/trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListTripsResponse{
		Data: trips,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /api/v1/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// queryInt parses an optional integer query parameter.
// Returns nil when the parameter is absent or not an integer.
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
