// Package generate picks the next overlay line: it orchestrates
// provider attempts against the channel's recency window, selects the
// least repetitive candidate and falls back to static content when
// generation is unavailable.
package generate

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/bus"
	"github.com/Ibragim1996/stream-overlay/internal/metrics"
	"github.com/Ibragim1996/stream-overlay/internal/models"
	"github.com/Ibragim1996/stream-overlay/internal/store"
)

// Provider is the external text generator. A call returns one raw
// line; transport and provider failures surface as errors.
type Provider interface {
	OneLine(ctx context.Context, args PromptArgs) (string, error)
}

// Via tags on a served line.
const (
	ViaGenerated = "generated"
	ViaFallback  = "fallback"
)

const (
	maxAttempts   = 3
	recentLimit   = 12
	keepRecent    = 24
	fallbackPicks = 5
)

// Result is a served line and how it was obtained.
type Result struct {
	Line string
	Via  string
}

// Generator runs the full next-line pipeline for a channel.
type Generator struct {
	provider Provider // nil when no provider is configured
	recency  store.Recency
	bus      *bus.Bus
	logger   zerolog.Logger
}

// New creates a generator. provider may be nil, in which case every
// request is served from the fallback pool.
func New(provider Provider, recency store.Recency, b *bus.Bus, logger zerolog.Logger) *Generator {
	return &Generator{provider: provider, recency: recency, bus: b, logger: logger}
}

// listMarker strips leading bullets and numbering the model sometimes
// prepends despite instructions.
var listMarker = regexp.MustCompile(`^\s*[-\d.)\]]+\s*`)

// cleanLine reduces raw provider output to its first usable line.
func cleanLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, `"'`+"`")
		if line != "" {
			return line
		}
	}
	return ""
}

// Next produces the channel's next line, records it in the recency
// window and publishes it as a task event. Provider failures are
// absorbed into fallback content; the only errors a caller sees come
// from its own cancelled context.
func (g *Generator) Next(ctx context.Context, channel string, args PromptArgs) (Result, error) {
	recent, err := g.recency.Recent(ctx, channel, recentLimit)
	if err != nil {
		// Dedup is advisory; generation proceeds without it.
		g.logger.Warn().Err(err).Str("channel", channel).Msg("recency window unavailable")
		recent = nil
	}
	args.Recent = recent

	var candidates []string
	if g.provider != nil {
		for i := 0; i < maxAttempts; i++ {
			raw, err := g.provider.OneLine(ctx, args)
			if err != nil {
				if ctx.Err() != nil {
					return Result{}, ctx.Err()
				}
				// One hard failure means the provider is having a bad
				// time; don't hammer it with the remaining attempts.
				metrics.ProviderErrors.Inc()
				g.logger.Warn().Err(err).Str("channel", channel).Msg("provider attempt failed")
				break
			}
			if line := cleanLine(raw); line != "" {
				candidates = append(candidates, line)
			}
		}
	}

	res := Result{Via: ViaGenerated}
	res.Line = PickDissimilar(candidates, recent)
	if res.Line == "" {
		pool := shuffledFallback(fallbackPicks)
		res.Line = PickDissimilar(pool, recent)
		if res.Line == "" {
			res.Line = pool[0]
		}
		res.Via = ViaFallback
	}

	if err := g.recency.RecordRecent(ctx, channel, res.Line, keepRecent); err != nil {
		g.logger.Warn().Err(err).Str("channel", channel).Msg("failed to record recent line")
	}

	ev := models.NewTaskEvent(res.Line, args.Mode, args.TaskType, args.StreamKind, args.Name)
	if err := g.bus.Publish(ctx, channel, ev); err != nil {
		g.logger.Warn().Err(err).Str("channel", channel).Msg("failed to publish task event")
	}

	metrics.TasksServed.WithLabelValues(res.Via).Inc()
	return res, nil
}
