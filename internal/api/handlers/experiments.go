package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slmforge/trainbench/internal/experiment"
)

type ExperimentHandler struct {
	svc *experiment.Service
}

func NewExperimentHandler(svc *experiment.Service) *ExperimentHandler {
	return &ExperimentHandler{svc: svc}
}

func (h *ExperimentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req experiment.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	exp, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, exp)
}

func (h *ExperimentHandler) List(w http.ResponseWriter, r *http.Request) {
	experiments, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"experiments": experiments, "count": len(experiments)})
}

func (h *ExperimentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid experiment ID"})
		return
	}

	exp, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, exp)
}
