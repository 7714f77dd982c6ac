package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	c := testCodec(t)

	tok, err := c.Issue("streamer42", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := c.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "streamer42" {
		t.Fatalf("expected subject streamer42, got %q", claims.Subject)
	}
	if claims.ExpiresAt != claims.IssuedAt+3600 {
		t.Fatalf("expected exp=iat+3600, got iat=%d exp=%d", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestExpiry(t *testing.T) {
	c := testCodec(t)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }

	tok, err := c.Issue("streamer", 60*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return issued.Add(59 * time.Second) }
	if _, err := c.Verify(tok); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	c.now = func() time.Time { return issued.Add(61 * time.Second) }
	if _, err := c.Verify(tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestMinTTLEnforced(t *testing.T) {
	c := testCodec(t)
	tok, err := c.Issue("streamer", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := c.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ExpiresAt-claims.IssuedAt != 60 {
		t.Fatalf("expected 60s lifetime, got %ds", claims.ExpiresAt-claims.IssuedAt)
	}
}

func TestTamperedPayload(t *testing.T) {
	c := testCodec(t)
	tok, err := c.Issue("streamer", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(tok, ".")
	payload := []byte(parts[1])
	for i := range payload {
		flipped := flipChar(payload[i])
		tampered := parts[0] + "." + string(payload[:i]) + string(flipped) + string(payload[i+1:]) + "." + parts[2]
		if _, err := c.Verify(tampered); !errors.Is(err, ErrBadSignature) {
			t.Fatalf("byte %d: expected ErrBadSignature, got %v", i, err)
		}
	}
}

func TestTamperedSignature(t *testing.T) {
	c := testCodec(t)
	tok, err := c.Issue("streamer", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	for i := range sig {
		flipped := flipChar(sig[i])
		tampered := parts[0] + "." + parts[1] + "." + string(sig[:i]) + string(flipped) + string(sig[i+1:])
		if _, err := c.Verify(tampered); !errors.Is(err, ErrBadSignature) {
			t.Fatalf("byte %d: expected ErrBadSignature, got %v", i, err)
		}
	}
}

// flipChar swaps a base64url character for a different one so the
// segment stays decodable but changes value.
func flipChar(b byte) byte {
	if b == 'A' {
		return 'B'
	}
	return 'A'
}

func TestMalformed(t *testing.T) {
	c := testCodec(t)
	for _, raw := range []string{
		"",
		"onlyone",
		"two.parts",
		"one.two.three.four",
		"..",
		"a..c",
	} {
		if _, err := c.Verify(raw); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestWrongSecret(t *testing.T) {
	c := testCodec(t)
	other, err := NewCodec("other-secret")
	if err != nil {
		t.Fatal(err)
	}

	tok, err := c.Issue("streamer", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Verify(tok); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
