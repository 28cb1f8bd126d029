package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"spawn-admin/pkg/version"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status  string `json:"status"`
	Module  string `json:"module,omitempty"`
	Version string `json:"version,omitempty"`
}

// HealthHandler creates a liveness handler for a given module
func HealthHandler(moduleName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "healthy",
			Module: moduleName,
		})
	}
}

// ServiceHealthHandler reports the process liveness with build version
func ServiceHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "healthy",
			Version: version.GetVersionString(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}
