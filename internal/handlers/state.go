package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/models"
)

// StateResponse wraps the overlay settings blob.
type StateResponse struct {
	OK    bool                `json:"ok"`
	State models.OverlayState `json:"state"`
}

// GetState handles GET /api/state: returns the channel's settings.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = r.URL.Query().Get("t")
	}
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

	state, err := h.store.GetState(r.Context(), bus.ChannelID(raw))
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "state_unavailable")
		return
	}
	h.JSON(w, http.StatusOK, StateResponse{OK: true, State: state})
}

// PatchStateRequest is a partial settings update from the control
// panel.
type PatchStateRequest struct {
	Token string            `json:"token,omitempty"`
	Patch models.StatePatch `json:"patch"`
}

// PatchState handles POST /api/state: merges a patch into the stored
// settings and returns the result.
func (h *Handler) PatchState(w http.ResponseWriter, r *http.Request) {
	var req PatchStateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	raw, _, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}

	ctx := r.Context()
	channel := bus.ChannelID(raw)

	prev, err := h.store.GetState(ctx, channel)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "state_unavailable")
		return
	}
	next := prev.Apply(req.Patch)
	if err := h.store.SetState(ctx, channel, next); err != nil {
		h.Error(w, http.StatusInternalServerError, "state_unavailable")
		return
	}

	h.JSON(w, http.StatusOK, StateResponse{OK: true, State: next})
}
