package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/generate"
	"github.com/Ibragim1996/stream-overlay/internal/metrics"
	"github.com/Ibragim1996/stream-overlay/internal/models"
)

const pingRecentLimit = 10

// TaskRequest is the overlay's generation request. Unknown option
// values normalize to defaults; only token and rate-limit problems
// reject the request.
type TaskRequest struct {
	Kind       string `json:"kind,omitempty"` // "ping" or "next"
	Token      string `json:"token,omitempty"`
	Mode       string `json:"mode,omitempty"`
	TaskType   string `json:"taskType,omitempty"`
	StreamKind string `json:"streamKind,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

// TaskResponse answers both ping and next requests.
type TaskResponse struct {
	OK         bool              `json:"ok"`
	Task       string            `json:"task,omitempty"`
	Name       string            `json:"name,omitempty"`
	Recent     []string          `json:"recent,omitempty"`
	Mode       models.Mode       `json:"mode"`
	TaskType   models.TaskType   `json:"taskType"`
	StreamKind models.StreamKind `json:"streamKind"`
	Lang       models.Lang       `json:"lang"`
	Via        string            `json:"via,omitempty"`
}

// Task handles POST /api/task: "ping" validates the token and returns
// the subject plus recent lines, "next" runs the full generation
// pipeline.
func (h *Handler) Task(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	// An unparseable body degrades to defaults rather than erroring.
	_ = json.NewDecoder(r.Body).Decode(&req)

	raw, claims, ok := h.authenticate(w, r, req.Token)
	if !ok {
		return
	}

	ctx := r.Context()
	channel := bus.ChannelID(raw)
	resp := TaskResponse{
		OK:         true,
		Name:       claims.Subject,
		Mode:       models.NormalizeMode(req.Mode),
		TaskType:   models.NormalizeTaskType(req.TaskType),
		StreamKind: models.NormalizeStreamKind(req.StreamKind),
		Lang:       models.NormalizeLang(req.Lang),
	}

	if req.Kind == "ping" {
		recent, err := h.store.Recent(ctx, channel, pingRecentLimit)
		if err != nil {
			h.logger.Warn().Err(err).Msg("recent lines unavailable for ping")
			recent = nil
		}
		resp.Recent = recent
		h.JSON(w, http.StatusOK, resp)
		return
	}

	allowed, err := h.store.TryAcquire(ctx, channel, h.rateLimit)
	if err != nil {
		// Bookkeeping failure never blocks the overlay.
		h.logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		allowed = true
	}
	if !allowed {
		metrics.RateLimitHits.Inc()
		h.Error(w, http.StatusTooManyRequests, "rate_limited")
		return
	}

	res, err := h.gen.Next(ctx, channel, generate.PromptArgs{
		Mode:       resp.Mode,
		TaskType:   resp.TaskType,
		StreamKind: resp.StreamKind,
		Lang:       resp.Lang,
		Name:       claims.Subject,
	})
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp.Task = res.Line
	resp.Via = res.Via
	h.JSON(w, http.StatusOK, resp)
}
