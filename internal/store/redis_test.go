package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Ibragim1996/stream-overlay/internal/models"
)

func testStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecencyBound(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const keep = 24
	for i := 0; i < 40; i++ {
		if err := s.RecordRecent(ctx, "chan1", fmt.Sprintf("line %d", i), keep); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.Recent(ctx, "chan1", keep)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != keep {
		t.Fatalf("expected %d entries, got %d", keep, len(recent))
	}
	// Most recent first: lines 39 down to 16.
	for i, line := range recent {
		want := fmt.Sprintf("line %d", 39-i)
		if line != want {
			t.Fatalf("entry %d: expected %q, got %q", i, want, line)
		}
	}
}

func TestRecentEmptyChannel(t *testing.T) {
	s := testStore(t)

	recent, err := s.Recent(context.Background(), "nobody", 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected empty, got %v", recent)
	}
}

func TestRateLimitBoundary(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	const limit = 20
	for i := 0; i < limit; i++ {
		allowed, err := s.tryAcquire(ctx, "chan1", limit, now)
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}

	allowed, err := s.tryAcquire(ctx, "chan1", limit, now)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("21st call in the same window should be rejected")
	}

	// Next minute bucket starts fresh.
	allowed, err = s.tryAcquire(ctx, "chan1", limit, now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("first call in a fresh window should be allowed")
	}
}

func TestRateLimitPerChannel(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now()

	if allowed, _ := s.tryAcquire(ctx, "a", 1, now); !allowed {
		t.Fatal("channel a should be allowed")
	}
	if allowed, _ := s.tryAcquire(ctx, "b", 1, now); !allowed {
		t.Fatal("channel b has its own bucket")
	}
	if allowed, _ := s.tryAcquire(ctx, "a", 1, now); allowed {
		t.Fatal("channel a should now be rejected")
	}
}

func TestEventLogCapAndOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < EventLogCap+10; i++ {
		ev := models.NewMessageEvent(map[string]any{"n": i})
		if err := s.PushEvent(ctx, "chan1", ev); err != nil {
			t.Fatal(err)
		}
	}

	events, err := s.RecentEvents(ctx, "chan1", EventLogCap+10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != EventLogCap {
		t.Fatalf("expected log capped at %d, got %d", EventLogCap, len(events))
	}
	// Most recent first.
	if got := events[0].Payload["n"].(float64); got != float64(EventLogCap+9) {
		t.Fatalf("expected newest event first, got n=%v", got)
	}
}

func TestRecentEventsSkipsGarbage(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PushEvent(ctx, "chan1", models.NewAudienceEvent("twitch")); err != nil {
		t.Fatal(err)
	}
	s.client.LPush(ctx, eventsKey("chan1"), "not json")

	events, err := s.RecentEvents(ctx, "chan1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 decodable event, got %d", len(events))
	}
	if events[0].Type != models.EventAudience {
		t.Fatalf("expected audience event, got %q", events[0].Type)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	state, err := s.GetState(ctx, "chan1")
	if err != nil {
		t.Fatal(err)
	}
	if state != (models.OverlayState{}) {
		t.Fatalf("expected zero state, got %+v", state)
	}

	want := models.OverlayState{Mode: models.ModeChill, Seconds: 15, Auto: true}
	if err := s.SetState(ctx, "chan1", want); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetState(ctx, "chan1")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
