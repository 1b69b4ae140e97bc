package domain

// Phase is the position of a run in the sequence state machine:
// NotStarted -> Running -> {Finalized, Skipped}.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseFinalized  Phase = "finalized"
	PhaseSkipped    Phase = "skipped"
)

// SequenceState holds the flags of a single run.
// Finalized implies Started. Once Finalized (or Skipped) nothing scheduled may touch the stage.
type SequenceState struct {
	Started   bool `json:"started"`
	Finalized bool `json:"finalized"`
	Skipped   bool `json:"skipped"`
}

// Phase derives the state machine position from the flags.
func (s SequenceState) Phase() Phase {
	switch {
	case s.Skipped:
		return PhaseSkipped
	case s.Finalized:
		return PhaseFinalized
	case s.Started:
		return PhaseRunning
	default:
		return PhaseNotStarted
	}
}

// Terminal reports whether the run has reached Finalized or Skipped.
func (s SequenceState) Terminal() bool {
	return s.Finalized || s.Skipped
}
