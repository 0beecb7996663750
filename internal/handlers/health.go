// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"maps"
	"net/http"
	"runtime"
	"strconv"
	"time"
)

const serviceName = "relgraph-api"

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

var startTime = time.Now()

// HealthHandler reports liveness along with the graph defaults the server
// was started with.
type HealthHandler struct {
	details map[string]string
}

func NewHealthHandler(collapseJoins bool, maxBodyBytes int64) *HealthHandler {
	return &HealthHandler{details: map[string]string{
		"go_version":     runtime.Version(),
		"num_cpu":        strconv.Itoa(runtime.NumCPU()),
		"collapse_joins": strconv.FormatBool(collapseJoins),
		"max_body_bytes": strconv.FormatInt(maxBodyBytes, 10),
	}}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Uptime:    time.Since(startTime).String(),
		Details:   maps.Clone(h.details),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
