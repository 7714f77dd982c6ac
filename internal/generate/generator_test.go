package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/models"
	"github.com/Ibragim1996/stream-overlay/internal/store"
)

type fakeProvider struct {
	lines []string
	err   error
	calls int
}

func (f *fakeProvider) OneLine(ctx context.Context, args PromptArgs) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	line := f.lines[(f.calls-1)%len(f.lines)]
	return line, nil
}

func testDeps(t *testing.T) (*store.RedisStore, *bus.Bus) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, bus.New(s, zerolog.Nop())
}

func defaultArgs() PromptArgs {
	return PromptArgs{
		Mode:       models.DefaultMode,
		TaskType:   models.DefaultTaskType,
		StreamKind: models.DefaultStreamKind,
		Lang:       models.DefaultLang,
	}
}

func TestNextGeneratesAndPublishes(t *testing.T) {
	s, b := testDeps(t)
	ctx := context.Background()

	provider := &fakeProvider{lines: []string{"do a little celebration dance right now"}}
	g := New(provider, s, b, zerolog.Nop())

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sub := b.Subscribe(subCtx, "chan1")

	res, err := g.Next(ctx, "chan1", defaultArgs())
	if err != nil {
		t.Fatal(err)
	}
	if res.Via != ViaGenerated {
		t.Fatalf("expected via=%s, got %s", ViaGenerated, res.Via)
	}
	if res.Line != "do a little celebration dance right now" {
		t.Fatalf("unexpected line %q", res.Line)
	}
	if provider.calls != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, provider.calls)
	}

	// The chosen line lands in the recency window.
	recent, err := s.Recent(ctx, "chan1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0] != res.Line {
		t.Fatalf("expected recency window to hold %q, got %v", res.Line, recent)
	}

	// And is broadcast as a task event.
	select {
	case ev := <-sub:
		if ev.Type != models.EventTask || ev.Line != res.Line {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no task event published")
	}
}

func TestNextFallbackWhenProviderErrors(t *testing.T) {
	s, b := testDeps(t)
	ctx := context.Background()

	provider := &fakeProvider{err: errors.New("provider down")}
	g := New(provider, s, b, zerolog.Nop())

	res, err := g.Next(ctx, "chan1", defaultArgs())
	if err != nil {
		t.Fatal(err)
	}
	if res.Via != ViaFallback {
		t.Fatalf("expected via=%s, got %s", ViaFallback, res.Via)
	}
	if res.Line == "" {
		t.Fatal("fallback must always produce a line")
	}
	if provider.calls != 1 {
		t.Fatalf("first hard failure should abandon remaining attempts, got %d calls", provider.calls)
	}
}

func TestNextFallbackWithoutProvider(t *testing.T) {
	s, b := testDeps(t)

	g := New(nil, s, b, zerolog.Nop())
	res, err := g.Next(context.Background(), "chan1", defaultArgs())
	if err != nil {
		t.Fatal(err)
	}
	if res.Via != ViaFallback || res.Line == "" {
		t.Fatalf("expected non-empty fallback line, got %+v", res)
	}
}

func TestNextAvoidsRecentDuplicate(t *testing.T) {
	s, b := testDeps(t)
	ctx := context.Background()

	if err := s.RecordRecent(ctx, "chan1", "tell us your best joke", 24); err != nil {
		t.Fatal(err)
	}

	provider := &fakeProvider{lines: []string{
		"tell us your best joke",
		"what's your favorite food",
		"tell us your best joke",
	}}
	g := New(provider, s, b, zerolog.Nop())

	res, err := g.Next(ctx, "chan1", defaultArgs())
	if err != nil {
		t.Fatal(err)
	}
	if res.Line != "what's your favorite food" {
		t.Fatalf("expected the dissimilar candidate, got %q", res.Line)
	}
}

func TestNextSkipsEmptyCandidates(t *testing.T) {
	s, b := testDeps(t)

	provider := &fakeProvider{lines: []string{"   ", "\n\n", "- "}}
	g := New(provider, s, b, zerolog.Nop())

	res, err := g.Next(context.Background(), "chan1", defaultArgs())
	if err != nil {
		t.Fatal(err)
	}
	if res.Via != ViaFallback {
		t.Fatalf("blank candidates should fall back, got via=%s", res.Via)
	}
}
