package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ibragim1996/stream-overlay/internal/models"
)

const (
	recentTTL   = 12 * time.Hour
	eventLogTTL = 24 * time.Hour
	stateTTL    = 24 * time.Hour

	// Rate window is one minute; the key lives slightly longer so the
	// counter self-clears even when the last increment lands late in
	// the window.
	rateWindowTTL = 70 * time.Second
)

// EventLogCap is the maximum number of events kept per channel.
const EventLogCap = 200

// RedisStore is the shared keyed store: recency buffers, rate
// counters, event logs and overlay state. All channel state here is
// ephemeral and safe to recreate from nothing.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// recentKey returns the key for a channel's recency buffer.
func recentKey(channel string) string {
	return fmt.Sprintf("ovl:recent:%s", channel)
}

// eventsKey returns the key for a channel's event log.
func eventsKey(channel string) string {
	return fmt.Sprintf("ovl:bus:%s", channel)
}

// rateKey returns the key for a channel's current-minute rate bucket.
func rateKey(channel string, now time.Time) string {
	return fmt.Sprintf("rl:%s:%s", channel, now.UTC().Format("200601021504"))
}

// stateKey returns the key for a channel's overlay state blob.
func stateKey(channel string) string {
	return fmt.Sprintf("ovl:state:%s", channel)
}

// RecordRecent prepends a line to the channel's recency buffer,
// truncates it to keep entries and refreshes the TTL.
func (s *RedisStore) RecordRecent(ctx context.Context, channel, line string, keep int) error {
	if keep < 1 {
		keep = 1
	}
	key := recentKey(channel)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, line)
	pipe.LTrim(ctx, key, 0, int64(keep)-1)
	pipe.Expire(ctx, key, recentTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Recent returns up to limit recently recorded lines, most recent
// first. An unknown channel yields an empty slice.
func (s *RedisStore) Recent(ctx context.Context, channel string, limit int) ([]string, error) {
	if limit < 1 {
		return nil, nil
	}
	return s.client.LRange(ctx, recentKey(channel), 0, int64(limit)-1).Result()
}

// TryAcquire counts a request against the channel's current-minute
// bucket. Returns false once the counter exceeds limit. Never blocks;
// callers must treat a false as an immediate rejection.
func (s *RedisStore) TryAcquire(ctx context.Context, channel string, limit int) (bool, error) {
	return s.tryAcquire(ctx, channel, limit, time.Now())
}

func (s *RedisStore) tryAcquire(ctx context.Context, channel string, limit int, now time.Time) (bool, error) {
	key := rateKey(channel, now)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// Not atomic with the increment: a crash in between leaks an
		// undercounting bucket, which only ever under-restricts.
		s.client.Expire(ctx, key, rateWindowTTL)
	}
	return n <= int64(limit), nil
}

// PushEvent appends an event to the channel's bounded log and
// refreshes the log TTL. Fire-and-forget relative to subscribers.
func (s *RedisStore) PushEvent(ctx context.Context, channel string, ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := eventsKey(channel)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, 0, EventLogCap-1)
	pipe.Expire(ctx, key, eventLogTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentEvents returns up to limit logged events, most recent first.
// Entries that fail to decode are skipped.
func (s *RedisStore) RecentEvents(ctx context.Context, channel string, limit int) ([]models.Event, error) {
	if limit < 1 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, eventsKey(channel), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(raw))
	for _, data := range raw {
		var ev models.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// GetState loads the channel's overlay state. A missing key returns
// the zero state.
func (s *RedisStore) GetState(ctx context.Context, channel string) (models.OverlayState, error) {
	raw, err := s.client.Get(ctx, stateKey(channel)).Result()
	if err == redis.Nil {
		return models.OverlayState{}, nil
	}
	if err != nil {
		return models.OverlayState{}, err
	}

	var state models.OverlayState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.OverlayState{}, nil
	}
	return state, nil
}

// SetState stores the channel's overlay state with a fresh TTL.
func (s *RedisStore) SetState(ctx context.Context, channel string, state models.OverlayState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stateKey(channel), string(data), stateTTL).Err()
}
