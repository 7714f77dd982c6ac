package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/generate"
	"github.com/Ibragim1996/stream-overlay/internal/store"
	"github.com/Ibragim1996/stream-overlay/internal/token"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store     *store.RedisStore
	bus       *bus.Bus
	codec     *token.Codec
	gen       *generate.Generator
	logger    zerolog.Logger
	rateLimit int // generation requests per channel per minute
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s *store.RedisStore, b *bus.Bus, codec *token.Codec, gen *generate.Generator, logger zerolog.Logger, rateLimit int) *Handler {
	return &Handler{
		store:     s,
		bus:       b,
		codec:     codec,
		gen:       gen,
		logger:    logger,
		rateLimit: rateLimit,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends the uniform failure shape. Internal detail never leaves
// the boundary; clients get a coarse status and a short tag.
func (h *Handler) Error(w http.ResponseWriter, status int, tag string) {
	h.JSON(w, status, map[string]interface{}{"ok": false, "error": tag})
}

// bearerToken extracts the capability token from a request. The
// Authorization header takes precedence over the body field.
func bearerToken(r *http.Request, bodyToken string) string {
	hdr := r.Header.Get("Authorization")
	if strings.HasPrefix(hdr, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(hdr, "Bearer "))
	}
	return strings.TrimSpace(bodyToken)
}

// authenticate resolves and verifies the request's token. On failure
// it writes the 401 response and returns ok=false.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, bodyToken string) (string, token.Claims, bool) {
	raw := bearerToken(r, bodyToken)
	if raw == "" {
		h.Error(w, http.StatusUnauthorized, "token_missing")
		return "", token.Claims{}, false
	}
	claims, err := h.codec.Verify(raw)
	if err != nil {
		h.Error(w, http.StatusUnauthorized, "invalid_token")
		return "", token.Claims{}, false
	}
	return raw, claims, true
}
