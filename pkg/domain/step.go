package domain

import (
	"fmt"
	"sort"
	"time"
)

// Step is one scheduled visual-state change.
type Step struct {
	// Index is the declared order of the step. It breaks ties between steps sharing an offset.
	Index int `json:"index"`

	// At is the offset from the start of the sequence at which the step fires.
	At time.Duration `json:"at"`

	Action ActionKind `json:"action"`

	// Target is an opaque handle resolved by the Stage (e.g. a DOM selector key).
	Target string `json:"target"`

	// Text is written into the target by text-bearing actions.
	Text string `json:"text,omitempty"`
}

// Effect returns the stage request for this step.
func (s Step) Effect() Effect {
	return Effect{
		Step:   s.Index,
		Action: s.Action,
		Target: s.Target,
		Text:   s.Text,
	}
}

// Timeline is an immutable, validated list of steps in firing order
// (non-decreasing At, ties broken by Index).
type Timeline struct {
	steps []Step
}

// NewTimeline validates the steps and orders them for playback.
func NewTimeline(steps ...Step) (Timeline, error) {
	ordered := make([]Step, len(steps))
	copy(ordered, steps)

	seen := make(map[int]bool, len(ordered))
	for _, s := range ordered {
		if s.At < 0 {
			return Timeline{}, fmt.Errorf("%w: step %d fires at negative offset %s", ErrInvalidTimeline, s.Index, s.At)
		}
		if !s.Action.Valid() {
			return Timeline{}, fmt.Errorf("%w: step %d has unknown action %q", ErrInvalidTimeline, s.Index, s.Action)
		}
		if s.Target == "" {
			return Timeline{}, fmt.Errorf("%w: step %d has no target", ErrInvalidTimeline, s.Index)
		}
		if seen[s.Index] {
			return Timeline{}, fmt.Errorf("%w: duplicate step index %d", ErrInvalidTimeline, s.Index)
		}
		seen[s.Index] = true
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].At != ordered[j].At {
			return ordered[i].At < ordered[j].At
		}
		return ordered[i].Index < ordered[j].Index
	})

	return Timeline{steps: ordered}, nil
}

// MustTimeline is like NewTimeline but panics on invalid input.
// Intended for timelines declared in code.
func MustTimeline(steps ...Step) Timeline {
	t, err := NewTimeline(steps...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of steps.
func (t Timeline) Len() int { return len(t.steps) }

// At returns the i-th step in firing order.
func (t Timeline) At(i int) Step { return t.steps[i] }

// Steps returns a copy of the steps in firing order.
func (t Timeline) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Duration is the offset of the last step.
func (t Timeline) Duration() time.Duration {
	if len(t.steps) == 0 {
		return 0
	}
	return t.steps[len(t.steps)-1].At
}
