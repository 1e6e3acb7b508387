package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slmforge/trainbench/internal/evaluation"
)

type EvaluationHandler struct {
	svc *evaluation.Service
}

func NewEvaluationHandler(svc *evaluation.Service) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	var experimentID *uuid.UUID
	if raw := r.URL.Query().Get("experiment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid experiment_id filter"})
			return
		}
		experimentID = &id
	}

	evaluations, err := h.svc.List(r.Context(), experimentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"evaluations": evaluations, "count": len(evaluations)})
}

func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluation ID"})
		return
	}

	ev, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ev)
}
