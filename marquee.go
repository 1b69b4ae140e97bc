package marquee

import (
	"context"
	"log/slog"
	"time"

	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/internal/runtime"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/clock"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/ports"
)

// DefaultReplayDelay is the pause between a replay reset and the restart.
const DefaultReplayDelay = runtime.DefaultReplayDelay

// Player is the high-level entry point for the marquee library.
// It wraps the internal sequencer and provides a simplified API for consumers.
type Player struct {
	seq         *runtime.Sequencer
	stage       ports.Stage
	timeline    domain.Timeline
	clock       clock.Clock
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	replayDelay time.Duration
}

// Option defines a functional option for configuring the Player.
type Option func(*Player)

// WithStage sets where effects are shown (default: an in-memory stage).
func WithStage(stage ports.Stage) Option {
	return func(p *Player) {
		p.stage = stage
	}
}

// WithTimeline replaces the hero chat timeline.
func WithTimeline(t domain.Timeline) Option {
	return func(p *Player) {
		p.timeline = t
	}
}

// WithClock sets the scheduling clock.
func WithClock(c clock.Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Player) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithReplayDelay overrides the pause before a replay restarts.
func WithReplayDelay(d time.Duration) Option {
	return func(p *Player) {
		p.replayDelay = d
	}
}

// New builds a Player for the hero timeline.
func New(opts ...Option) *Player {
	p := &Player{
		timeline:    domain.HeroTimeline(),
		clock:       clock.Real(),
		replayDelay: DefaultReplayDelay,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.stage == nil {
		p.stage = memory.NewStage()
	}
	// A nil logger would overwrite the sequencer's default.
	if p.logger == nil {
		p.logger = logging.NewNop()
	}

	p.seq = runtime.NewSequencer(p.timeline, p.stage,
		runtime.WithClock(p.clock),
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
		runtime.WithReplayDelay(p.replayDelay),
	)
	return p
}

// Start plays the timeline. See runtime.Sequencer.Start.
func (p *Player) Start(ctx context.Context, reducedMotion bool) {
	p.seq.Start(ctx, reducedMotion)
}

// Skip jumps to the end state.
func (p *Player) Skip(ctx context.Context) {
	p.seq.Skip(ctx)
}

// Replay resets and plays again after the replay delay.
func (p *Player) Replay(ctx context.Context) {
	p.seq.Replay(ctx)
}

// State returns the current sequence flags.
func (p *Player) State() domain.SequenceState {
	return p.seq.State()
}

// Snapshot returns a serialisable view of the run, including the scene
// when the stage can report one.
func (p *Player) Snapshot() domain.Snapshot {
	return p.seq.Snapshot()
}

// Restore resumes a run from a snapshot taken elsewhere. The stage must
// already show snap.Scene. See runtime.Sequencer.Restore.
func (p *Player) Restore(ctx context.Context, snap domain.Snapshot) {
	p.seq.Restore(ctx, snap)
}

// Timeline returns the timeline being played.
func (p *Player) Timeline() domain.Timeline {
	return p.timeline
}

// Stage returns the stage effects are applied to.
func (p *Player) Stage() ports.Stage {
	return p.stage
}
