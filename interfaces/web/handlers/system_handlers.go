package handlers

import (
	"net/http"
	"time"
)

// HealthChecker reports storage health. *database.Database satisfies it.
type HealthChecker interface {
	Health() (map[string]interface{}, error)
}

// SystemHandlers serves operational endpoints.
type SystemHandlers struct {
	db HealthChecker
}

// NewSystemHandlers creates the system handlers.
func NewSystemHandlers(db HealthChecker) *SystemHandlers {
	return &SystemHandlers{db: db}
}

// Health reports liveness together with connection pool statistics.
func (h *SystemHandlers) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Health()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   ServiceName,
			"error":     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   ServiceName,
		"database":  stats,
	})
}
