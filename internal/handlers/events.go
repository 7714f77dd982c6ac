package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/metrics"
	"github.com/Ibragim1996/stream-overlay/internal/models"
)

// PublishRequest is the control panel's event publish request. Type
// selects which fields matter; anything unrecognized becomes a
// message event.
type PublishRequest struct {
	Token      string         `json:"token,omitempty"`
	Type       string         `json:"type,omitempty"`
	Line       string         `json:"line,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	TaskType   string         `json:"taskType,omitempty"`
	StreamKind string         `json:"streamKind,omitempty"`
	Name       string         `json:"name,omitempty"`
	Audience   string         `json:"audience,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// PublishEvent handles POST /api/events: pushes one event onto the
// token's channel.
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	raw, _, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}

	var ev models.Event
	switch req.Type {
	case models.EventTask:
		ev = models.NewTaskEvent(
			req.Line,
			models.NormalizeMode(req.Mode),
			models.NormalizeTaskType(req.TaskType),
			models.NormalizeStreamKind(req.StreamKind),
			req.Name,
		)
	case models.EventAudience:
		ev = models.NewAudienceEvent(req.Audience)
	default:
		ev = models.NewMessageEvent(req.Payload)
	}

	if err := h.bus.Publish(r.Context(), bus.ChannelID(raw), ev); err != nil {
		h.Error(w, http.StatusInternalServerError, "publish_failed")
		return
	}

	metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	h.JSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ToggleRequest switches which audience the overlay addresses.
type ToggleRequest struct {
	Token    string `json:"token,omitempty"`
	Audience string `json:"audience,omitempty"`
}

// ToggleAudience handles POST /api/events/toggle: publishes an
// audience event so every open overlay updates immediately.
func (h *Handler) ToggleAudience(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	raw, _, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}

	ev := models.NewAudienceEvent(req.Audience)
	if err := h.bus.Publish(r.Context(), bus.ChannelID(raw), ev); err != nil {
		h.Error(w, http.StatusInternalServerError, "publish_failed")
		return
	}

	metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	h.JSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"audience": ev.Payload["audience"],
	})
}
