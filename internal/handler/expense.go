package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// RecordExpenseRequest is the body of POST /api/v1/trips/{tripID}/expenses.
type RecordExpenseRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// RecordExpenseResponse is the partial-failure-aware payload returned for one
// recording attempt. DatabasePersisted and FileLogged report the two
// persistence mechanisms independently; ErrorDetail is set only when the
// database write failed.
type RecordExpenseResponse struct {
	Local             float64  `json:"local"`
	Currency          string   `json:"currency"`
	Converted         float64  `json:"converted"`
	Rate              *float64 `json:"rate,omitempty"`
	Note              string   `json:"note"`
	Remaining         float64  `json:"remaining"`
	DatabasePersisted bool     `json:"database_persisted"`
	FileLogged        bool     `json:"file_logged"`
	ErrorDetail       string   `json:"error_detail,omitempty"`
}

// RecordExpense handles POST /api/v1/trips/{tripID}/expenses.
//
// A 201 does not imply full persistence: inspect database_persisted and
// file_logged in the response. Validation failures map to 422, an unknown
// trip to 404, and an unavailable exchange-rate provider to 502.
func (s *Server) RecordExpense(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	var body RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	outcome, err := s.expenses.Record(r.Context(), id, body.Amount, body.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, outcomeToResponse(outcome))
}

// ListExpenses handles GET /api/v1/trips/{tripID}/expenses.
// Expenses come back in creation order, so remaining_after values form the
// budget's decrement chain.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	expenses, err := s.expenses.ListByTripID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Expense{"data": expenses})
}

// outcomeToResponse converts a domain.RecordingOutcome into the response payload.
func outcomeToResponse(o domain.RecordingOutcome) RecordExpenseResponse {
	return RecordExpenseResponse{
		Local:             o.Expense.LocalAmount,
		Currency:          o.Expense.LocalCurrency,
		Converted:         o.Expense.HomeAmount,
		Rate:              o.Expense.Rate,
		Note:              o.Expense.Note,
		Remaining:         o.Expense.RemainingAfter,
		DatabasePersisted: o.DatabasePersisted,
		FileLogged:        o.FileLogged,
		ErrorDetail:       o.ErrorDetail,
	}
}
