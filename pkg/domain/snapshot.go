package domain

import "time"

// Snapshot is a serialisable view of one hero session.
type Snapshot struct {
	SessionID string        `json:"session_id"`
	State     SequenceState `json:"state"`
	Phase     Phase         `json:"phase"`

	// ReplayPending is set between a replay and the delayed restart.
	ReplayPending bool `json:"replay_pending,omitempty"`

	// ReducedMotion is the preference of the current (or pending) run.
	ReducedMotion bool `json:"reduced_motion,omitempty"`

	// Applied lists the indices of steps whose effect reached the stage, in order.
	Applied []int `json:"applied"`

	Scene     Scene     `json:"scene"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Applied = make([]int, len(s.Applied))
	copy(out.Applied, s.Applied)
	out.Scene = s.Scene.Clone()
	return out
}
