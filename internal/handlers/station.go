package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"stationbook/internal/config"
	"stationbook/internal/middleware"
	"stationbook/internal/models"
	"stationbook/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StationHandler struct {
	svc  *services.StationService
	cfg  *config.Config
	logr *zap.Logger
}

func NewStationHandler(svc *services.StationService, cfg *config.Config, logr *zap.Logger) *StationHandler {
	return &StationHandler{svc: svc, cfg: cfg, logr: logr}
}

// nearbyStation is the nearby response item: the station plus its distance
// from the query point for display.
type nearbyStation struct {
	models.ServiceStation
	DistanceKm float64 `json:"distance_km"`
}

// GET /service-stations/nearby?lat=&lng=&radius=
// lat and lng are required; radius falls back to the configured default.
func (h *StationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")

	if latStr == "" || lngStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Latitude and longitude are required"})
		return
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid coordinates"})
		return
	}

	radius := h.cfg.DefaultNearbyRadiusKm
	if radiusStr := q.Get("radius"); radiusStr != "" {
		var err error
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid radius"})
			return
		}
	}

	results, err := h.svc.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		h.logr.Error("nearby search failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	stations := make([]nearbyStation, 0, len(results))
	for _, res := range results {
		stations = append(stations, nearbyStation{ServiceStation: res.Station, DistanceKm: res.DistanceKm})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stations":  stations,
		"count":     len(stations),
		"radius_km": radius,
	})
}

// GET /service-stations
func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	stations, err := h.svc.List(r.Context(), p)
	if err != nil {
		h.logr.Error("failed to list stations", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stations": stations,
		"count":    len(stations),
	})
}

// GET /service-stations/{id}
func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	station, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// POST /service-stations
func (h *StationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}
	var in services.StationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	station, err := h.svc.Create(r.Context(), p, in)
	if err != nil {
		h.logr.Warn("failed to create station", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// PUT /service-stations/{id}
func (h *StationHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var in services.StationUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	station, err := h.svc.Update(r.Context(), p, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// DELETE /service-stations/{id}
func (h *StationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// POST /service-stations/{id}/services — attach an offered service type or set
// a per-station price/duration override when price fields are supplied.
type stationServiceReq struct {
	services.StationServiceInput
	AttachOnly bool `json:"attach_only"`
}

func (h *StationHandler) UpsertService(w http.ResponseWriter, r *http.Request) {
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
	var req stationServiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	if err := h.svc.AttachServiceType(r.Context(), p, id, req.ServiceTypeID); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.AttachOnly {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	svc, err := h.svc.UpsertStationService(r.Context(), p, id, req.StationServiceInput)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// DELETE /service-stations/{id}/services/{serviceTypeID}
func (h *StationHandler) DetachService(w http.ResponseWriter, r *http.Request) {
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
	serviceTypeID, err := uuid.Parse(chi.URLParam(r, "serviceTypeID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service type id"})
		return
	}
	if err := h.svc.DetachServiceType(r.Context(), p, id, serviceTypeID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
