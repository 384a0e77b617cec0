package handlers

import (
	"net/http"
	"time"

	"github.com/voipbin/voipbin-mcp/internal/common"
)

// HealthHandler handles liveness checks. It never calls the upstream API.
type HealthHandler struct {
	logger *common.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, now: time.Now}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}
