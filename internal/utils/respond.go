package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/EmpoweredVote/civic-requests/internal/validation"
)

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error   string                 `json:"error"`
	Details []validation.Violation `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

func WriteValidationError(w http.ResponseWriter, errs validation.Errors) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid data", Details: errs})
}

// WriteServerError logs the cause and answers with an opaque 500.
func WriteServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	slog.ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
	WriteError(w, http.StatusInternalServerError, msg)
}
