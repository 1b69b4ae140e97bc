package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/domain"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// EffectMsg carries an applied effect and the scene it produced.
type EffectMsg struct {
	Effect domain.Effect
	Scene  domain.Scene
}

// ResetMsg carries the pre-sequence scene after a replay reset.
type ResetMsg struct {
	Scene domain.Scene
}

// PhaseMsg reports a sequence transition.
type PhaseMsg struct {
	Type  domain.EventType
	Phase domain.Phase
}

// StepFailedMsg reports a step that could not be shown.
type StepFailedMsg struct {
	Effect  domain.Effect
	Missing bool
}

// Stage implements ports.Stage by folding effects into a memory stage and
// forwarding the resulting scene to the program.
//
// Apply runs under the sequencer lock and Send blocks until the program reads
// the message, so the model must never call the player synchronously from Update.
type Stage struct {
	inner  *memory.Stage
	sender Sender
}

// NewStage creates a stage forwarding to sender.
func NewStage(sender Sender, opts ...memory.StageOption) *Stage {
	return &Stage{
		inner:  memory.NewStage(opts...),
		sender: sender,
	}
}

func (s *Stage) Apply(ctx context.Context, effect domain.Effect) error {
	if err := s.inner.Apply(ctx, effect); err != nil {
		return err
	}
	s.send(EffectMsg{Effect: effect, Scene: s.inner.Scene()})
	return nil
}

func (s *Stage) Reset(ctx context.Context) error {
	if err := s.inner.Reset(ctx); err != nil {
		return err
	}
	s.send(ResetMsg{Scene: s.inner.Scene()})
	return nil
}

// Scene returns the current scene.
func (s *Stage) Scene() domain.Scene {
	return s.inner.Scene()
}

func (s *Stage) send(msg tea.Msg) {
	if s.sender != nil {
		s.sender.Send(msg)
	}
}

// Hooks forwards phase transitions and failures to the program.
func Hooks(sender Sender) domain.LifecycleHooks {
	seq := func(_ context.Context, e *domain.SequenceEvent) {
		sender.Send(PhaseMsg{Type: e.Type, Phase: e.Phase})
	}
	return domain.LifecycleHooks{
		OnStart:    seq,
		OnSkip:     seq,
		OnFinalize: seq,
		OnReplay:   seq,
		OnStepFailed: func(_ context.Context, e *domain.StepEvent) {
			sender.Send(StepFailedMsg{Effect: e.Effect, Missing: e.Missing})
		},
	}
}

// Relay is a Sender whose target program is attached after construction.
// Messages sent before Attach are dropped.
type Relay struct {
	target Sender
}

// Attach sets the destination program.
func (r *Relay) Attach(s Sender) {
	r.target = s
}

func (r *Relay) Send(msg tea.Msg) {
	if r.target != nil {
		r.target.Send(msg)
	}
}
