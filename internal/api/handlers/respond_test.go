package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slmforge/trainbench/internal/apperr"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validationf("dataset_type must be 'training' or 'evaluation'"),
			http.StatusBadRequest, "dataset_type must be 'training' or 'evaluation'"},
		{"not found", apperr.NotFound("experiment"), http.StatusNotFound, "experiment not found"},
		{"storage", apperr.Storage("upload", errors.New("disk full")),
			http.StatusInternalServerError, "storage failure"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperr.NotFound("model")),
			http.StatusNotFound, "model not found"},
		{"unknown", errors.New("pq: connection refused"),
			http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestWriteErrorNeverLeaksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
