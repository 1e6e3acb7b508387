package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/slmforge/trainbench/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic message; internal detail stays in the
// logs, never in the response body.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		se *apperr.StorageError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
	case errors.As(err, &se):
		slog.Error("storage error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
