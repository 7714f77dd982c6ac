package generate

import "math/rand"

// fallbackLines is the static pool served when generation is
// unavailable or yields nothing usable.
var fallbackLines = []string{
	"Chat, rate the streamer's fit 1–10 — be honest.",
	"Tell us your most controversial food take in 10s.",
	"Pick one: sleep or grind — and why?",
	"Show your phone lockscreen for 3 seconds 😏",
	"Do a 7-word life advice, no more, no less.",
	"Chat, drop one dare (PG-13) for the next minute.",
	"Tell a tiny L you took this week.",
	"If you vanished for a day — what's the move?",
	"Name one habit you're trying to fix.",
	"Give your best two-line roast of yourself.",
}

// shuffledFallback returns n fallback lines in random order.
func shuffledFallback(n int) []string {
	pool := make([]string, len(fallbackLines))
	copy(pool, fallbackLines)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
