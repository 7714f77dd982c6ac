// Package bus fans out overlay events to live subscribers on top of
// the bounded per-channel log kept in the shared store. The log is the
// source of truth for replay; live delivery is best-effort and carries
// no acknowledgement.
package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ibragim1996/stream-overlay/internal/metrics"
	"github.com/Ibragim1996/stream-overlay/internal/models"
	"github.com/Ibragim1996/stream-overlay/internal/store"
)

// ReplayCount is how many logged events a fresh subscription receives
// before going live.
const ReplayCount = 2

// subscriberBuffer bounds the per-subscriber queue. A subscriber that
// falls this far behind starts dropping events rather than slowing the
// publisher.
const subscriberBuffer = 16

// Bus multiplexes per-channel subscriptions over a shared event log.
type Bus struct {
	log    store.EventLog
	logger zerolog.Logger

	mu   sync.RWMutex
	subs map[string]map[string]chan models.Event
}

// New creates a bus backed by the given event log.
func New(log store.EventLog, logger zerolog.Logger) *Bus {
	return &Bus{
		log:    log,
		logger: logger,
		subs:   make(map[string]map[string]chan models.Event),
	}
}

// Publish appends the event to the channel's log and delivers it to
// every live subscriber on that channel. Returns an error only when
// the log write fails; fan-out itself never fails.
func (b *Bus) Publish(ctx context.Context, channel string, ev models.Event) error {
	if err := b.log.PushEvent(ctx, channel, ev); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs[channel] {
		select {
		case ch <- ev:
		default:
			b.logger.Warn().Str("channel", channel).Str("subscriber", id).Msg("slow subscriber, event dropped")
		}
	}
	return nil
}

// Subscribe opens a push stream on the channel. The returned channel
// first yields up to ReplayCount buffered events in publish order,
// then every event published after the subscription opened. It closes
// when ctx is cancelled; all per-subscription state is released then.
//
// An event published while the replay is being fetched can appear
// twice: once from the log, once live. Consumers treat events as
// idempotent by ID.
func (b *Bus) Subscribe(ctx context.Context, channel string) <-chan models.Event {
	id := uuid.NewString()
	live := make(chan models.Event, subscriberBuffer)
	b.add(channel, id, live)
	metrics.ActiveSubscriptions.Inc()

	out := make(chan models.Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer metrics.ActiveSubscriptions.Dec()
		defer b.remove(channel, id)

		replay, err := b.log.RecentEvents(ctx, channel, ReplayCount)
		if err != nil {
			b.logger.Warn().Err(err).Str("channel", channel).Msg("event replay unavailable")
		}
		// RecentEvents is newest-first; replay oldest-first.
		for i := len(replay) - 1; i >= 0; i-- {
			select {
			case out <- replay[i]:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case ev := <-live:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (b *Bus) add(channel, id string, ch chan models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[string]chan models.Event)
	}
	b.subs[channel][id] = ch
}

func (b *Bus) remove(channel, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[channel], id)
	if len(b.subs[channel]) == 0 {
		delete(b.subs, channel)
	}
}

// Subscribers reports the number of live subscriptions on a channel.
func (b *Bus) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[channel])
}
