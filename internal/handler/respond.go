package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
	"github.com/hyunwoo-p/tripbudget/internal/fx"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding failures after WriteHeader cannot be reported to the client;
	// the request logger records the truncated response.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to the appropriate HTTP status and envelope:
//
//	domain.ErrNotFound     -> 404 not_found
//	domain.ErrValidation   -> 422 validation_error
//	fx.ErrUnreachable      -> 502 conversion_failed
//	fx.ErrRateUnavailable  -> 502 conversion_failed
//	anything else          -> 500 internal_error (detail withheld)
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, fx.ErrUnreachable), errors.Is(err, fx.ErrRateUnavailable):
		writeErrorBody(w, http.StatusBadGateway, "conversion_failed", unwrapMessage(err))
	default:
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeRequestError reports a bad request rejected before reaching the service
// layer (e.g. missing or malformed body).
func writeRequestError(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", message)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: budget must be positive"
// becomes "budget must be positive".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	// Strip "pkg.Type.Method: " wrapping prefixes.
	for {
		idx := strings.Index(msg, ": ")
		if idx < 0 {
			break
		}
		head := msg[:idx]
		if strings.Count(head, ".") < 2 || strings.ContainsAny(head, " \t") {
			break
		}
		msg = msg[idx+2:]
	}
	// Strip the sentinel's own text so only the specific reason remains.
	msg = strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
	return msg
}
