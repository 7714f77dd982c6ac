// Package token issues and verifies the compact signed tokens that
// grant an overlay page access to its channel. A token is
// header.payload.signature, base64url without padding, signed with
// HMAC-SHA256 over the first two segments. Tokens are stateless: the
// server keeps nothing, a token is valid until its exp claim passes.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrMalformed    = errors.New("token: malformed")
	ErrBadSignature = errors.New("token: bad signature")
	ErrExpired      = errors.New("token: expired")
)

// MinTTL is the shortest lifetime a token can be issued with.
const MinTTL = 60 * time.Second

// Claims is the decoded token payload.
type Claims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Codec signs and verifies tokens with a shared secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec. The secret must be non-empty.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty secret")
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Issue creates a signed token for subject. TTLs below MinTTL are
// raised to MinTTL.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl < MinTTL {
		ttl = MinTTL
	}
	now := c.now().Unix()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Claims{
		Subject:   strings.TrimSpace(subject),
		IssuedAt:  now,
		ExpiresAt: now + int64(ttl/time.Second),
	})
	if err != nil {
		return "", err
	}

	base := b64(header) + "." + b64(payload)
	return base + "." + c.sign(base), nil
}

// Verify checks structure, signature and expiry, in that order, and
// returns the claims. Any failure means the caller is unauthenticated;
// there is no partial trust and no retry.
func (c *Codec) Verify(raw string) (Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Claims{}, ErrMalformed
	}

	base := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(c.sign(base)), []byte(parts[2])) {
		return Claims{}, ErrBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	if claims.ExpiresAt < c.now().Unix() {
		return Claims{}, ErrExpired
	}
	return claims, nil
}

func (c *Codec) sign(base string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(base))
	return b64(mac.Sum(nil))
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
