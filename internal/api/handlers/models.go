package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slmforge/trainbench/internal/registry"
)

type ModelHandler struct {
	svc *registry.Service
}

func NewModelHandler(svc *registry.Service) *ModelHandler {
	return &ModelHandler{svc: svc}
}

func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.List(r.Context(), r.URL.Query().Get("model_type"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

func (h *ModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid model ID"})
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
