package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/models"
	"github.com/Ibragim1996/stream-overlay/internal/store"
)

func testBus(t *testing.T) *Bus {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, zerolog.Nop())
}

func recvEvent(t *testing.T, ch <-chan models.Event) models.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.Event{}
}

func TestFanOut(t *testing.T) {
	b := testBus(t)
	ctx := context.Background()

	ctx1, cancel1 := context.WithCancel(ctx)
	ctx2, cancel2 := context.WithCancel(ctx)
	defer cancel2()

	sub1 := b.Subscribe(ctx1, "chan1")
	sub2 := b.Subscribe(ctx2, "chan1")

	ev := models.NewAudienceEvent("twitch")
	if err := b.Publish(ctx, "chan1", ev); err != nil {
		t.Fatal(err)
	}

	got1 := recvEvent(t, sub1)
	got2 := recvEvent(t, sub2)
	if got1.ID != ev.ID || got2.ID != ev.ID {
		t.Fatalf("both subscribers should see event %s, got %s and %s", ev.ID, got1.ID, got2.ID)
	}

	// Closing one subscription must not affect the other.
	cancel1()
	for i := 0; b.Subscribers("chan1") != 1; i++ {
		if i > 100 {
			t.Fatal("cancelled subscription was not cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ev2 := models.NewMessageEvent(map[string]any{"k": "v"})
	if err := b.Publish(ctx, "chan1", ev2); err != nil {
		t.Fatal(err)
	}
	if got := recvEvent(t, sub2); got.ID != ev2.ID {
		t.Fatalf("surviving subscriber should see %s, got %s", ev2.ID, got.ID)
	}
}

func TestChannelIsolation(t *testing.T) {
	b := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	other := b.Subscribe(ctx, "other")

	if err := b.Publish(ctx, "chan1", models.NewAudienceEvent("all")); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-other:
		t.Fatalf("subscriber on another channel received %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReplayWindow(t *testing.T) {
	b := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := models.NewMessageEvent(map[string]any{"n": 1})
	second := models.NewMessageEvent(map[string]any{"n": 2})
	third := models.NewMessageEvent(map[string]any{"n": 3})
	for _, ev := range []models.Event{first, second, third} {
		if err := b.Publish(ctx, "chan1", ev); err != nil {
			t.Fatal(err)
		}
	}

	sub := b.Subscribe(ctx, "chan1")

	// Replay is capped at ReplayCount and arrives in publish order,
	// so the oldest event is dropped.
	if got := recvEvent(t, sub); got.ID != second.ID {
		t.Fatalf("expected replay of %s first, got %s", second.ID, got.ID)
	}
	if got := recvEvent(t, sub); got.ID != third.ID {
		t.Fatalf("expected replay of %s second, got %s", third.ID, got.ID)
	}

	live := models.NewMessageEvent(map[string]any{"n": 4})
	if err := b.Publish(ctx, "chan1", live); err != nil {
		t.Fatal(err)
	}
	if got := recvEvent(t, sub); got.ID != live.ID {
		t.Fatalf("expected live event %s after replay, got %s", live.ID, got.ID)
	}
}

func TestSubscriptionClosesOnCancel(t *testing.T) {
	b := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub := b.Subscribe(ctx, "chan1")
	cancel()

	select {
	case _, ok := <-sub:
		if ok {
			// Drain a possibly buffered replay; the channel must
			// still close.
			for range sub {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not close after cancel")
	}

	for i := 0; b.Subscribers("chan1") != 0; i++ {
		if i > 100 {
			t.Fatal("subscriber registration leaked")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestChannelIDDeterministic(t *testing.T) {
	a := ChannelID("token-a")
	if a != ChannelID("token-a") {
		t.Fatal("ChannelID must be deterministic")
	}
	if a == ChannelID("token-b") {
		t.Fatal("distinct tokens must map to distinct channels")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
