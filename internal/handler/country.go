package handler

import (
	"net/http"

	"github.com/hyunwoo-p/tripbudget/internal/currency"
)

// ListCountries handles GET /api/v1/countries.
// It returns the destination picker's country list: priority destinations
// first, the rest sorted by name. The data is static reference data, so the
// handler talks to the currency package directly — no service layer needed.
func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]currency.Country{"data": currency.Countries()})
}
