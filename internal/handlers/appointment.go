package handlers

import (
	"encoding/json"
	"net/http"

	"stationbook/internal/middleware"
	"stationbook/internal/services"
	"stationbook/internal/utils"

	"go.uber.org/zap"
)

type AppointmentHandler struct {
	svc  *services.AppointmentService
	logr *zap.Logger
}

func NewAppointmentHandler(svc *services.AppointmentService, logr *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logr: logr}
}

// GET /appointments?status=pending,confirmed
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}

	statuses := utils.ParseQueryList(r.URL.Query(), "status")
	views, err := h.svc.List(r.Context(), p, statuses)
	if err != nil {
		h.logr.Error("failed to list appointments", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": views,
		"count":        len(views),
	})
}

// GET /appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	view, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	var in services.AppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	apt, err := h.svc.Create(r.Context(), p, in)
	if err != nil {
		h.logr.Warn("failed to create appointment", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apt)
}

// PUT /appointments/{id}
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	var in services.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	apt, err := h.svc.Update(r.Context(), p, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

// DELETE /appointments/{id}
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	id, ok := parseIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}
	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
