package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/pkg/clock"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/ports"
)

// DefaultReplayDelay lets the reset render before the sequence plays again.
const DefaultReplayDelay = 500 * time.Millisecond

// Sequencer plays a Timeline against a Stage.
//
// Only the next due step is ever armed on the clock. When it fires, every step
// whose offset has been reached is applied in timeline order before the next
// one is armed, so steps sharing a tick keep their index order. Every armed
// callback carries the generation it was armed in; Skip and Replay bump the
// generation first, which turns any callback already in flight into a no-op.
type Sequencer struct {
	timeline    domain.Timeline
	stage       ports.Stage
	clock       clock.Clock
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	replayDelay time.Duration

	mu        sync.Mutex
	state     domain.SequenceState
	gen       uint64
	cursor    int
	applied   []int
	timer     clock.Timer
	startedAt time.Time
	reduced   bool
	pending   bool
	runCtx    context.Context
}

// Option configures the Sequencer.
type Option func(*Sequencer)

// WithClock sets the clock used to schedule steps (default: clock.Real()).
func WithClock(c clock.Clock) Option {
	return func(s *Sequencer) {
		s.clock = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Sequencer) {
		s.hooks = hooks
	}
}

// WithReplayDelay overrides the pause between a replay reset and the restart.
func WithReplayDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		s.replayDelay = d
	}
}

// NewSequencer creates a sequencer in the NotStarted phase.
func NewSequencer(timeline domain.Timeline, stage ports.Stage, opts ...Option) *Sequencer {
	s := &Sequencer{
		timeline:    timeline,
		stage:       stage,
		clock:       clock.Real(),
		logger:      logging.NewNop(),
		replayDelay: DefaultReplayDelay,
		runCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins playback. reducedMotion is read once: when set, every step's
// final visual state is applied immediately and the run finalizes without
// scheduling anything. ctx governs the whole run, not just this call.
// Starting an already started sequence is a no-op.
func (s *Sequencer) Start(ctx context.Context, reducedMotion bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Started || s.pending {
		s.logger.Debug("start ignored", "phase", s.state.Phase(), "replay_pending", s.pending)
		return
	}
	s.startLocked(ctx, reducedMotion)
}

// Skip cancels every pending step and applies the remaining ones synchronously.
// It is a no-op unless the sequence is running (or a replay is waiting to restart it).
func (s *Sequencer) Skip(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		// The delayed restart has not run yet: collapse start and skip into one step.
		s.stopTimerLocked()
		s.pending = false
		s.beginLocked(ctx, s.reduced)
	} else if !s.state.Started || s.state.Finalized {
		s.logger.Debug("skip ignored", "phase", s.state.Phase())
		return
	}

	s.gen++
	s.stopTimerLocked()

	elapsed := s.elapsedLocked()
	s.drainLocked(ctx, elapsed)

	s.state.Finalized = true
	s.state.Skipped = true
	s.logger.Info("sequence skipped", "elapsed", elapsed, "applied", len(s.applied))
	ev := s.sequenceEventLocked(domain.EventSequenceSkip, elapsed)
	if s.hooks.OnSkip != nil {
		s.hooks.OnSkip(ctx, ev)
	}
	s.finalizeLocked(ctx, elapsed)
}

// Replay resets a finished (or never started) sequence to its initial state,
// clears the stage, and starts again after the replay delay with the
// reduced-motion preference of the previous run. It is a no-op while running.
func (s *Sequencer) Replay(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending || (s.state.Started && !s.state.Finalized) {
		s.logger.Debug("replay ignored", "phase", s.state.Phase(), "replay_pending", s.pending)
		return
	}

	s.gen++
	s.stopTimerLocked()
	s.state = domain.SequenceState{}
	s.cursor = 0
	s.applied = nil

	if err := s.stage.Reset(ctx); err != nil {
		s.logger.Warn("stage reset failed", "error", err)
	}

	ev := s.sequenceEventLocked(domain.EventSequenceReplay, 0)
	if s.hooks.OnReplay != nil {
		s.hooks.OnReplay(ctx, ev)
	}
	s.logger.Info("sequence replay armed", "delay", s.replayDelay)

	s.armReplayLocked(ctx)
}

// Restore resumes a run captured by Snapshot, typically by another process.
// The stage must already show snap.Scene. A running snapshot carries on from
// the offset of its last applied step and a pending replay restarts after the
// replay delay. Restore is a no-op once this sequencer has started.
func (s *Sequencer) Restore(ctx context.Context, snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Started || s.pending {
		s.logger.Debug("restore ignored", "phase", s.state.Phase(), "replay_pending", s.pending)
		return
	}

	s.gen++
	s.reduced = snap.ReducedMotion
	s.runCtx = ctx

	if snap.ReplayPending {
		s.state = domain.SequenceState{}
		s.cursor = 0
		s.applied = nil
		s.logger.Info("sequence restored", "phase", s.state.Phase(), "replay_pending", true)
		s.armReplayLocked(ctx)
		return
	}

	s.state = snap.State
	s.applied = append([]int(nil), snap.Applied...)
	s.cursor = s.resumeCursor(snap.Applied)
	s.logger.Info("sequence restored", "phase", s.state.Phase(), "applied", len(s.applied))

	if !s.state.Started || s.state.Finalized {
		return
	}

	var offset time.Duration
	if s.cursor > 0 {
		offset = s.timeline.At(s.cursor - 1).At
	}
	s.startedAt = s.clock.Now().Add(-offset)
	if s.cursor >= s.timeline.Len() {
		s.finalizeLocked(ctx, offset)
		return
	}
	s.armLocked(s.gen)
}

// resumeCursor is the timeline position just after the last applied step.
func (s *Sequencer) resumeCursor(applied []int) int {
	done := make(map[int]bool, len(applied))
	for _, idx := range applied {
		done[idx] = true
	}
	cursor := 0
	for i, step := range s.timeline.Steps() {
		if done[step.Index] {
			cursor = i + 1
		}
	}
	return cursor
}

// armReplayLocked schedules the delayed restart that follows a replay.
func (s *Sequencer) armReplayLocked(ctx context.Context) {
	s.pending = true
	gen := s.gen
	reduced := s.reduced
	s.timer = s.clock.AfterFunc(s.replayDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if gen != s.gen || !s.pending {
			return
		}
		s.pending = false
		s.timer = nil
		s.startLocked(ctx, reduced)
	})
}

// State returns the current sequence flags.
func (s *Sequencer) State() domain.SequenceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a serialisable view of the run. When the stage is a
// ports.SceneReader its scene is read under the same lock as the flags, so
// Applied and Scene always describe the same step.
func (s *Sequencer) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := make([]int, len(s.applied))
	copy(applied, s.applied)
	snap := domain.Snapshot{
		State:         s.state,
		Phase:         s.state.Phase(),
		ReplayPending: s.pending,
		ReducedMotion: s.reduced,
		Applied:       applied,
		UpdatedAt:     s.clock.Now(),
	}
	if r, ok := s.stage.(ports.SceneReader); ok {
		snap.Scene = r.Scene()
	}
	return snap
}

// Timeline returns the timeline being played.
func (s *Sequencer) Timeline() domain.Timeline {
	return s.timeline
}

func (s *Sequencer) startLocked(ctx context.Context, reducedMotion bool) {
	s.beginLocked(ctx, reducedMotion)

	if reducedMotion {
		s.drainLocked(ctx, 0)
		s.finalizeLocked(ctx, 0)
		return
	}
	if s.timeline.Len() == 0 {
		s.finalizeLocked(ctx, 0)
		return
	}
	s.armLocked(s.gen)
}

// beginLocked moves the machine into Running without scheduling anything.
func (s *Sequencer) beginLocked(ctx context.Context, reducedMotion bool) {
	s.gen++
	s.state = domain.SequenceState{Started: true}
	s.cursor = 0
	s.applied = nil
	s.reduced = reducedMotion
	s.startedAt = s.clock.Now()
	s.runCtx = ctx

	s.logger.Info("sequence started", "reduced_motion", reducedMotion, "steps", s.timeline.Len())
	ev := s.sequenceEventLocked(domain.EventSequenceStart, 0)
	if s.hooks.OnStart != nil {
		s.hooks.OnStart(ctx, ev)
	}
}

func (s *Sequencer) armLocked(gen uint64) {
	next := s.timeline.At(s.cursor)
	delay := next.At - s.elapsedLocked()
	if delay < 0 {
		delay = 0
	}
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) })
}

func (s *Sequencer) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state.Terminal() {
		return
	}
	s.timer = nil

	ctx := s.runCtx
	if err := ctx.Err(); err != nil {
		s.logger.Debug("sequence halted", "error", err, "applied", len(s.applied))
		return
	}

	elapsed := s.elapsedLocked()
	for s.cursor < s.timeline.Len() && s.timeline.At(s.cursor).At <= elapsed {
		step := s.timeline.At(s.cursor)
		s.cursor++
		s.applyLocked(ctx, step, elapsed)
	}

	if s.cursor >= s.timeline.Len() {
		s.finalizeLocked(ctx, elapsed)
		return
	}
	s.armLocked(gen)
}

// drainLocked applies every step not yet applied, in order.
func (s *Sequencer) drainLocked(ctx context.Context, elapsed time.Duration) {
	for s.cursor < s.timeline.Len() {
		step := s.timeline.At(s.cursor)
		s.cursor++
		s.applyLocked(ctx, step, elapsed)
	}
}

// applyLocked sends one step to the stage. A failing step is logged and
// reported, never propagated: the rest of the timeline carries on.
func (s *Sequencer) applyLocked(ctx context.Context, step domain.Step, elapsed time.Duration) {
	ev := &domain.StepEvent{
		EventBase: domain.EventBase{
			Timestamp: s.clock.Now(),
			Type:      domain.EventStepApplied,
			Elapsed:   elapsed,
		},
		Effect: step.Effect(),
	}

	if err := s.stage.Apply(ctx, ev.Effect); err != nil {
		ev.Type = domain.EventStepFailed
		ev.Err = err.Error()
		if errors.Is(err, domain.ErrTargetMissing) {
			ev.Missing = true
			s.logger.Warn("step target missing", "step", step.Index, "action", step.Action, "target", step.Target)
		} else {
			s.logger.Error("step failed", "step", step.Index, "action", step.Action, "error", err)
		}
		if s.hooks.OnStepFailed != nil {
			s.hooks.OnStepFailed(ctx, ev)
		}
		return
	}

	s.applied = append(s.applied, step.Index)
	s.logger.Debug("step applied", "step", step.Index, "action", step.Action, "elapsed", elapsed)
	if s.hooks.OnStepApplied != nil {
		s.hooks.OnStepApplied(ctx, ev)
	}
}

func (s *Sequencer) finalizeLocked(ctx context.Context, elapsed time.Duration) {
	s.state.Finalized = true
	s.timer = nil

	s.logger.Info("sequence finalized", "skipped", s.state.Skipped, "reduced_motion", s.reduced, "elapsed", elapsed)
	ev := s.sequenceEventLocked(domain.EventSequenceFinalize, elapsed)
	if s.hooks.OnFinalize != nil {
		s.hooks.OnFinalize(ctx, ev)
	}
}

func (s *Sequencer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Sequencer) elapsedLocked() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.clock.Now().Sub(s.startedAt)
}

func (s *Sequencer) sequenceEventLocked(t domain.EventType, elapsed time.Duration) *domain.SequenceEvent {
	return &domain.SequenceEvent{
		EventBase: domain.EventBase{
			Timestamp: s.clock.Now(),
			Type:      t,
			Elapsed:   elapsed,
		},
		Generation:    s.gen,
		ReducedMotion: s.reduced,
		Phase:         s.state.Phase(),
	}
}
