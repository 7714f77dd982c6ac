package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
)

// keepAliveInterval spaces the comment frames that keep idle
// connections open through proxies.
const keepAliveInterval = 15 * time.Second

// StreamEvents handles GET /api/events/stream: a long-lived SSE
// response carrying the channel's events. The token comes from the
// "t" query parameter or the bearer header; the subscription ends
// when the client disconnects.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		raw = bearerToken(r, "")
	}
	if raw == "" {
		h.Error(w, http.StatusUnauthorized, "token_missing")
		return
	}
	if _, err := h.codec.Verify(raw); err != nil {
		h.Error(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.Error(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	events := h.bus.Subscribe(ctx, bus.ChannelID(raw))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
