package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Event type tags.
const (
	EventTask     = "task"
	EventAudience = "audience"
	EventMessage  = "message"
)

// Event is a single overlay channel event. Type selects which of the
// optional fields are meaningful: task events carry Line plus the mode
// fields, audience and message events carry Payload.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Line       string         `json:"line,omitempty"`
	Mode       Mode           `json:"mode,omitempty"`
	TaskType   TaskType       `json:"taskType,omitempty"`
	StreamKind StreamKind     `json:"streamKind,omitempty"`
	Name       string         `json:"name,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  int64          `json:"ts"` // Unix ms
}

// NewTaskEvent builds a task event with a fresh ULID and timestamp.
func NewTaskEvent(line string, mode Mode, taskType TaskType, streamKind StreamKind, name string) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       EventTask,
		Line:       line,
		Mode:       mode,
		TaskType:   taskType,
		StreamKind: streamKind,
		Name:       name,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// NewAudienceEvent builds an audience toggle event.
func NewAudienceEvent(audience string) Event {
	if audience == "" {
		audience = "all"
	}
	return Event{
		ID:        ulid.Make().String(),
		Type:      EventAudience,
		Payload:   map[string]any{"audience": audience},
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewMessageEvent builds a free-form message event. A nil payload is
// stored as an empty object so subscribers always see a JSON object.
func NewMessageEvent(payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:        ulid.Make().String(),
		Type:      EventMessage,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}
