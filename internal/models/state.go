package models

// OverlayState is the settings blob the control panel shares with the
// overlay page. Pointer fields in StatePatch distinguish "not sent"
// from zero values.
type OverlayState struct {
	Mode       Mode       `json:"mode,omitempty"`
	Seconds    int        `json:"seconds,omitempty"`
	Auto       bool       `json:"auto,omitempty"`
	Voice      bool       `json:"voice,omitempty"`
	Friend     bool       `json:"friend,omitempty"`
	StreamKind StreamKind `json:"streamKind,omitempty"`
}

// StatePatch is a partial update to an OverlayState.
type StatePatch struct {
	Mode       *string `json:"mode,omitempty"`
	Seconds    *int    `json:"seconds,omitempty"`
	Auto       *bool   `json:"auto,omitempty"`
	Voice      *bool   `json:"voice,omitempty"`
	Friend     *bool   `json:"friend,omitempty"`
	StreamKind *string `json:"streamKind,omitempty"`
}

// Auto-refresh interval bounds in seconds.
const (
	MinRefreshSeconds = 5
	MaxRefreshSeconds = 60
)

// Apply merges a patch into the state, clamping the refresh interval.
func (s OverlayState) Apply(p StatePatch) OverlayState {
	if p.Mode != nil {
		s.Mode = NormalizeMode(*p.Mode)
	}
	if p.Seconds != nil {
		sec := *p.Seconds
		if sec < MinRefreshSeconds {
			sec = MinRefreshSeconds
		}
		if sec > MaxRefreshSeconds {
			sec = MaxRefreshSeconds
		}
		s.Seconds = sec
	}
	if p.Auto != nil {
		s.Auto = *p.Auto
	}
	if p.Voice != nil {
		s.Voice = *p.Voice
	}
	if p.Friend != nil {
		s.Friend = *p.Friend
	}
	if p.StreamKind != nil {
		s.StreamKind = NormalizeStreamKind(*p.StreamKind)
	}
	return s
}
