package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/voipbin/voipbin-mcp/internal/common"
)

// HeartbeatEvent is the payload of every /sse frame.
type HeartbeatEvent struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// NewHeartbeatEvent returns a heartbeat stamped with t in UTC.
func NewHeartbeatEvent(t time.Time) HeartbeatEvent {
	return HeartbeatEvent{Type: "heartbeat", Timestamp: t.UTC().Format(time.RFC3339Nano)}
}

// Heartbeats emits one event immediately and then one per interval until ctx
// is done. The channel is closed and the ticker stopped when the producer exits.
func Heartbeats(ctx context.Context, interval time.Duration) <-chan HeartbeatEvent {
	ticker := time.NewTicker(interval)
	return produceHeartbeats(ctx, ticker.C, ticker.Stop, time.Now)
}

func produceHeartbeats(ctx context.Context, ticks <-chan time.Time, stop func(), now func() time.Time) <-chan HeartbeatEvent {
	out := make(chan HeartbeatEvent)
	go func() {
		defer close(out)
		defer stop()

		emit := func() bool {
			select {
			case out <- NewHeartbeatEvent(now()):
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				if !emit() {
					return
				}
			}
		}
	}()
	return out
}

// StreamHandler serves the /sse heartbeat stream.
type StreamHandler struct {
	logger *common.Logger
	source func(ctx context.Context) <-chan HeartbeatEvent
}

// NewStreamHandler creates a heartbeat stream emitting every interval.
func NewStreamHandler(logger *common.Logger, interval time.Duration) *StreamHandler {
	return &StreamHandler{
		logger: logger,
		source: func(ctx context.Context) <-chan HeartbeatEvent {
			return Heartbeats(ctx, interval)
		},
	}
}

// ServeHTTP handles GET /sse. The stream ends when the client disconnects,
// the server shuts down or a write fails.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error().Msg("response writer does not support flushing for SSE")
		WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("event stream opened")

	for event := range h.source(ctx) {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to encode heartbeat")
			return
		}
		h.logger.Debug().Str("timestamp", event.Timestamp).Msg("sending heartbeat")
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			h.logger.Warn().Str("error", err.Error()).Msg("failed to write heartbeat")
			return
		}
		flusher.Flush()
	}

	h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("event stream closed")
}
