package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"omnicart-backend/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors onto HTTP statuses. Unknown errors are
// reported as a generic 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound     *core.NotFoundError
		validation   *core.ValidationError
		insufficient *core.InsufficientStockError
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, r, notFound.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &insufficient):
		writeError(w, r, insufficient.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrEmptyOrder):
		writeError(w, r, err.Error(), "EMPTY_ORDER", http.StatusBadRequest)
	case errors.As(err, &validation):
		writeError(w, r, validation.Error(), "BAD_REQUEST", http.StatusBadRequest)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
