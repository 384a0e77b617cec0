package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/voipbin/voipbin-mcp/internal/common"
)

const upstreamPingTimeout = 3 * time.Second

// Pinger reports whether the VoIPBin API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpstreamHealthHandler pings the VoIPBin API base URL.
type UpstreamHealthHandler struct {
	logger *common.Logger
	pinger Pinger
}

// NewUpstreamHealthHandler creates a new upstream health handler.
func NewUpstreamHealthHandler(logger *common.Logger, pinger Pinger) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{logger: logger, pinger: pinger}
}

// ServeHTTP handles GET /upstream/health.
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamPingTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn().Str("error", err.Error()).Msg("voipbin api unreachable")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
