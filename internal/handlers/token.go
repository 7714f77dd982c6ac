package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Ibragim1996/stream-overlay/internal/metrics"
)

const defaultTokenTTL = 6 * time.Hour

// IssueTokenRequest is the dashboard's token mint request.
type IssueTokenRequest struct {
	Name   string `json:"name"`
	TTLSec int64  `json:"ttlSec,omitempty"`
}

// IssueTokenResponse carries the freshly signed token.
type IssueTokenResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// IssueToken mints a signed overlay token for a streamer name.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "bad_request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "bad_name")
		return
	}

	ttl := defaultTokenTTL
	if req.TTLSec > 0 {
		ttl = time.Duration(req.TTLSec) * time.Second
	}

	tok, err := h.codec.Issue(req.Name, ttl)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "token_error")
		return
	}

	metrics.TokensIssued.Inc()
	h.JSON(w, http.StatusOK, IssueTokenResponse{OK: true, Token: tok})
}

// VerifyResponse is the decoded payload of a valid token.
type VerifyResponse struct {
	OK      bool        `json:"ok"`
	Payload interface{} `json:"payload"`
}

// VerifyToken checks a token from the query string and returns its
// claims. The overlay page uses this to show "invalid or expired
// link" before opening a stream.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		h.Error(w, http.StatusUnauthorized, "token_missing")
		return
	}

	claims, err := h.codec.Verify(raw)
	if err != nil {
		h.Error(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	h.JSON(w, http.StatusOK, VerifyResponse{OK: true, Payload: claims})
}
