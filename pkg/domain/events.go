package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSequenceStart    EventType = "sequence_start"
	EventStepApplied      EventType = "step_applied"
	EventStepFailed       EventType = "step_failed"
	EventSequenceSkip     EventType = "sequence_skip"
	EventSequenceFinalize EventType = "sequence_finalize"
	EventSequenceReplay   EventType = "sequence_replay"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Elapsed is the time since the run started.
	Elapsed time.Duration `json:"elapsed"`
}

// SequenceEvent reports a whole-run transition.
type SequenceEvent struct {
	EventBase
	Generation    uint64 `json:"generation"`
	ReducedMotion bool   `json:"reduced_motion,omitempty"`
	Phase         Phase  `json:"phase"`
}

// StepEvent reports a single step reaching (or failing to reach) the stage.
type StepEvent struct {
	EventBase
	Effect
	Missing bool   `json:"missing,omitempty"`
	Err     string `json:"err,omitempty"`
}

// LifecycleHooks defines callbacks for sequence observability.
// Hooks run while the sequencer holds its lock and must not call back into it.
type LifecycleHooks struct {
	OnStart       func(context.Context, *SequenceEvent)
	OnStepApplied func(context.Context, *StepEvent)
	OnStepFailed  func(context.Context, *StepEvent)
	OnSkip        func(context.Context, *SequenceEvent)
	OnFinalize    func(context.Context, *SequenceEvent)
	OnReplay      func(context.Context, *SequenceEvent)
}

// ComposeHooks returns hooks that call each non-nil hook of every argument in order.
func ComposeHooks(all ...LifecycleHooks) LifecycleHooks {
	seq := func(pick func(LifecycleHooks) func(context.Context, *SequenceEvent)) func(context.Context, *SequenceEvent) {
		var fns []func(context.Context, *SequenceEvent)
		for _, h := range all {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *SequenceEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	step := func(pick func(LifecycleHooks) func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
		var fns []func(context.Context, *StepEvent)
		for _, h := range all {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *StepEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}

	return LifecycleHooks{
		OnStart:       seq(func(h LifecycleHooks) func(context.Context, *SequenceEvent) { return h.OnStart }),
		OnStepApplied: step(func(h LifecycleHooks) func(context.Context, *StepEvent) { return h.OnStepApplied }),
		OnStepFailed:  step(func(h LifecycleHooks) func(context.Context, *StepEvent) { return h.OnStepFailed }),
		OnSkip:        seq(func(h LifecycleHooks) func(context.Context, *SequenceEvent) { return h.OnSkip }),
		OnFinalize:    seq(func(h LifecycleHooks) func(context.Context, *SequenceEvent) { return h.OnFinalize }),
		OnReplay:      seq(func(h LifecycleHooks) func(context.Context, *SequenceEvent) { return h.OnReplay }),
	}
}
