package handlers

import (
	"encoding/json"
	"net/http"

	"stationbook/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceTypeHandler struct {
	svc  *services.ServiceTypeService
	logr *zap.Logger
}

func NewServiceTypeHandler(svc *services.ServiceTypeService, logr *zap.Logger) *ServiceTypeHandler {
	return &ServiceTypeHandler{svc: svc, logr: logr}
}

func parseIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// GET /service-types
func (h *ServiceTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list service types", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service_types": types,
		"count":         len(types),
	})
}

// GET /service-types/{id}
func (h *ServiceTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	st, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// POST /service-types
func (h *ServiceTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceTypeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	st, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.logr.Warn("failed to create service type", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// PUT /service-types/{id}
func (h *ServiceTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	var in services.ServiceTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	st, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DELETE /service-types/{id}
func (h *ServiceTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
