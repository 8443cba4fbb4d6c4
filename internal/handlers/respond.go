package handlers

import (
	"encoding/json"
	"net/http"

	"stationbook/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps the error taxonomy onto HTTP statuses:
// validation and malformed arguments are 400, missing/out-of-scope is 404,
// anything else is a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err), models.IsInvalidArgument(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
