package store

import (
	"context"

	"github.com/Ibragim1996/stream-overlay/internal/models"
)

// Recency is the per-channel history of recently shown lines, used for
// duplicate avoidance. Advisory only: losing it degrades dedup, never
// correctness.
type Recency interface {
	RecordRecent(ctx context.Context, channel, line string, keep int) error
	Recent(ctx context.Context, channel string, limit int) ([]string, error)
}

// EventLog is the bounded per-channel event log backing replay and
// fan-out.
type EventLog interface {
	PushEvent(ctx context.Context, channel string, ev models.Event) error
	RecentEvents(ctx context.Context, channel string, limit int) ([]models.Event, error)
}

// RateLimiter is the fixed-window per-channel request counter.
type RateLimiter interface {
	TryAcquire(ctx context.Context, channel string, limit int) (bool, error)
}
