package handler

import (
	"net/http"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// Export handles GET /api/v1/export.
// It returns the flat, denormalized view of every trip and its expenses,
// one row per expense (one empty-expense row for trips without any).
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.ExportRow{"data": rows})
}
