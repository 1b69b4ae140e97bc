package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/identify-labs/marquee/internal/runtime"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/clock"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

type harness struct {
	seq   *runtime.Sequencer
	stage *memory.Stage
	clock *clock.Fake
}

func newHarness(t *testing.T, tl domain.Timeline, stage *memory.Stage, opts ...runtime.Option) *harness {
	t.Helper()
	if stage == nil {
		stage = memory.NewStage()
	}
	c := clock.NewFake(time.Date(2024, 3, 1, 8, 11, 0, 0, time.UTC))
	opts = append([]runtime.Option{runtime.WithClock(c)}, opts...)
	return &harness{
		seq:   runtime.NewSequencer(tl, stage, opts...),
		stage: stage,
		clock: c,
	}
}

func appliedIndices(stage *memory.Stage) []int {
	var out []int
	for _, e := range stage.Effects() {
		out = append(out, e.Step)
	}
	return out
}

// spacedTimeline uses the offsets of the hero chat, declared out of order.
func spacedTimeline() domain.Timeline {
	return domain.MustTimeline(
		domain.Step{Index: 4, At: 7000 * ms, Action: domain.ActionActivateOverlay, Target: "overlay"},
		domain.Step{Index: 0, At: 0, Action: domain.ActionRevealMessage, Target: "m0", Text: "zero"},
		domain.Step{Index: 2, At: 3500 * ms, Action: domain.ActionRevealMessage, Target: "m2", Text: "two"},
		domain.Step{Index: 1, At: 2000 * ms, Action: domain.ActionShowTyping, Target: "typing"},
		domain.Step{Index: 6, At: 10500 * ms, Action: domain.ActionRevealMessage, Target: "m6", Text: "six"},
		domain.Step{Index: 3, At: 5500 * ms, Action: domain.ActionSwapLabelText, Target: "label", Text: "8:12 AM"},
		domain.Step{Index: 5, At: 9000 * ms, Action: domain.ActionDeactivateOverlay, Target: "overlay"},
	)
}

func TestSequencer_ReducedMotionCollapses(t *testing.T) {
	for name, tl := range map[string]domain.Timeline{
		"hero":   domain.HeroTimeline(),
		"spaced": spacedTimeline(),
		"empty":  domain.MustTimeline(),
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, tl, nil)

			h.seq.Start(context.Background(), true)

			state := h.seq.State()
			assert.True(t, state.Started)
			assert.True(t, state.Finalized)
			assert.False(t, state.Skipped)
			assert.Equal(t, 0, h.clock.Pending(), "reduced motion must not schedule timers")
			assert.Equal(t, domain.FinalScene(tl), h.stage.Scene())
		})
	}
}

func TestSequencer_SkipAtAnyTime(t *testing.T) {
	tl := domain.HeroTimeline()
	final := domain.FinalScene(tl)

	for _, at := range []time.Duration{1 * ms, 1999 * ms, 2000 * ms, 3500 * ms, 6000 * ms, 9000 * ms, 12499 * ms} {
		t.Run(at.String(), func(t *testing.T) {
			h := newHarness(t, tl, nil)
			ctx := context.Background()

			h.seq.Start(ctx, false)
			h.clock.Advance(at)
			require.False(t, h.seq.State().Finalized)

			h.seq.Skip(ctx)

			state := h.seq.State()
			assert.True(t, state.Finalized)
			assert.True(t, state.Skipped)
			assert.Equal(t, domain.PhaseSkipped, state.Phase())
			assert.Equal(t, final, h.stage.Scene(), "skip must land on the same scene as reduced motion")
			assert.Equal(t, 0, h.clock.Pending())

			// Stale callbacks never touch the stage afterwards.
			before := len(h.stage.Effects())
			h.clock.Advance(time.Minute)
			assert.Len(t, h.stage.Effects(), before)
		})
	}
}

func TestSequencer_SkipIsIdempotent(t *testing.T) {
	h := newHarness(t, domain.HeroTimeline(), nil)
	ctx := context.Background()

	h.seq.Start(ctx, false)
	h.clock.Advance(4 * time.Second)

	h.seq.Skip(ctx)
	once := h.seq.Snapshot()
	effects := h.stage.Effects()

	h.seq.Skip(ctx)
	twice := h.seq.Snapshot()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second skip changed the snapshot (-once +twice):\n%s", diff)
	}
	assert.Equal(t, effects, h.stage.Effects())
}

func TestSequencer_SkipBeforeStartIsNoop(t *testing.T) {
	h := newHarness(t, domain.HeroTimeline(), nil)

	h.seq.Skip(context.Background())

	assert.Equal(t, domain.SequenceState{}, h.seq.State())
	assert.Empty(t, h.stage.Effects())
}

func TestSequencer_Ordering(t *testing.T) {
	t.Run("Single Advance", func(t *testing.T) {
		h := newHarness(t, spacedTimeline(), nil)

		h.seq.Start(context.Background(), false)
		h.clock.Advance(time.Minute)

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, appliedIndices(h.stage))
		assert.True(t, h.seq.State().Finalized)
	})

	t.Run("Tick By Tick", func(t *testing.T) {
		h := newHarness(t, spacedTimeline(), nil)

		h.seq.Start(context.Background(), false)
		for i := 0; i < 120; i++ {
			h.clock.Advance(100 * ms)
		}

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, appliedIndices(h.stage))
	})

	t.Run("Shared Tick Keeps Index Order", func(t *testing.T) {
		tl := domain.MustTimeline(
			domain.Step{Index: 2, At: 1000 * ms, Action: domain.ActionRevealMessage, Target: "b", Text: "b"},
			domain.Step{Index: 1, At: 1000 * ms, Action: domain.ActionRevealMessage, Target: "a", Text: "a"},
			domain.Step{Index: 0, At: 1000 * ms, Action: domain.ActionShowTyping, Target: "typing"},
		)
		h := newHarness(t, tl, nil)

		h.seq.Start(context.Background(), false)
		h.clock.Advance(999 * ms)
		assert.Empty(t, h.stage.Effects())

		h.clock.Advance(1 * ms)
		assert.Equal(t, []int{0, 1, 2}, appliedIndices(h.stage))
	})

	t.Run("Hero Ties", func(t *testing.T) {
		h := newHarness(t, domain.HeroTimeline(), nil)

		h.seq.Start(context.Background(), false)
		h.clock.Advance(time.Minute)

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, appliedIndices(h.stage))
	})
}

func TestSequencer_LabelSwapScenario(t *testing.T) {
	tl := domain.MustTimeline(
		domain.Step{Index: 0, At: 0, Action: domain.ActionRevealMessage, Target: "a", Text: "A"},
		domain.Step{Index: 1, At: 2000 * ms, Action: domain.ActionShowTyping, Target: "b"},
		domain.Step{Index: 2, At: 5500 * ms, Action: domain.ActionSwapLabelText, Target: "label", Text: "8:12 AM"},
		domain.Step{Index: 3, At: 12500 * ms, Action: domain.ActionFinalize, Target: "hero"},
	)
	h := newHarness(t, tl, nil)

	h.seq.Start(context.Background(), false)
	h.clock.Advance(6000 * ms)

	scene := h.stage.Scene()
	assert.Equal(t, []int{0, 1, 2}, appliedIndices(h.stage))
	assert.Equal(t, "8:12 AM", scene.Label)
	assert.False(t, h.seq.State().Finalized, "finalizes only at the last step")
	assert.Equal(t, domain.PhaseRunning, h.seq.State().Phase())

	h.clock.Advance(6499 * ms)
	assert.False(t, h.seq.State().Finalized)

	h.clock.Advance(1 * ms)
	assert.True(t, h.seq.State().Finalized)
	assert.False(t, h.seq.State().Skipped)
	assert.True(t, h.stage.Scene().Revealed)
}

func TestSequencer_MissingTargetDoesNotHalt(t *testing.T) {
	stage := memory.NewStage(memory.WithoutTargets(domain.TargetTyping))

	var failed []domain.StepEvent
	hooks := domain.LifecycleHooks{
		OnStepFailed: func(ctx context.Context, e *domain.StepEvent) { failed = append(failed, *e) },
	}
	h := newHarness(t, domain.HeroTimeline(), stage, runtime.WithLifecycleHooks(hooks))

	h.seq.Start(context.Background(), false)
	h.clock.Advance(time.Minute)

	assert.True(t, h.seq.State().Finalized)
	assert.Equal(t, []int{0, 3, 4, 5, 6, 7, 8, 9}, h.seq.Snapshot().Applied)
	require.Len(t, failed, 2)
	for _, ev := range failed {
		assert.True(t, ev.Missing)
		assert.Equal(t, domain.TargetTyping, ev.Target)
		assert.Equal(t, domain.EventStepFailed, ev.Type)
	}
	assert.True(t, h.stage.Scene().Revealed)
}

func TestSequencer_StartTwiceIsNoop(t *testing.T) {
	h := newHarness(t, domain.HeroTimeline(), nil)
	ctx := context.Background()

	h.seq.Start(ctx, false)
	h.clock.Advance(2500 * ms)
	h.seq.Start(ctx, true)

	assert.False(t, h.seq.State().Finalized, "second start must not collapse a running sequence")
	assert.Equal(t, []int{0, 1}, appliedIndices(h.stage))
}

func TestSequencer_Replay(t *testing.T) {
	t.Run("Ignored While Running", func(t *testing.T) {
		h := newHarness(t, domain.HeroTimeline(), nil)
		ctx := context.Background()

		h.seq.Start(ctx, false)
		h.clock.Advance(3 * time.Second)
		h.seq.Replay(ctx)

		assert.Equal(t, domain.PhaseRunning, h.seq.State().Phase())
		assert.False(t, h.seq.Snapshot().ReplayPending)
	})

	t.Run("Resets Then Restarts After Delay", func(t *testing.T) {
		h := newHarness(t, domain.HeroTimeline(), nil)
		ctx := context.Background()

		h.seq.Start(ctx, false)
		h.clock.Advance(time.Minute)
		require.True(t, h.seq.State().Finalized)

		h.seq.Replay(ctx)
		assert.Equal(t, domain.SequenceState{}, h.seq.State())
		assert.True(t, h.seq.Snapshot().ReplayPending)
		assert.Equal(t, domain.NewScene(), h.stage.Scene())

		h.clock.Advance(runtime.DefaultReplayDelay - ms)
		assert.False(t, h.seq.State().Started)

		h.clock.Advance(ms)
		assert.Equal(t, domain.PhaseRunning, h.seq.State().Phase())
		assert.Equal(t, []int{0}, appliedIndices(h.stage))

		h.clock.Advance(time.Minute)
		assert.True(t, h.seq.State().Finalized)
		assert.Equal(t, domain.FinalScene(h.seq.Timeline()), h.stage.Scene())
	})

	t.Run("Skip During Delay Matches Fresh Skip", func(t *testing.T) {
		ctx := context.Background()

		fresh := newHarness(t, domain.HeroTimeline(), nil)
		fresh.seq.Start(ctx, false)
		fresh.seq.Skip(ctx)

		h := newHarness(t, domain.HeroTimeline(), nil)
		h.seq.Start(ctx, false)
		h.clock.Advance(time.Minute)
		h.seq.Replay(ctx)
		h.seq.Skip(ctx)

		assert.Equal(t, fresh.seq.State(), h.seq.State())
		assert.Equal(t, fresh.stage.Scene(), h.stage.Scene())
		assert.Equal(t, fresh.seq.Snapshot().Applied, h.seq.Snapshot().Applied)
		assert.Equal(t, 0, h.clock.Pending(), "the delayed restart must be cancelled")

		h.clock.Advance(time.Minute)
		assert.True(t, h.seq.State().Skipped, "nothing may restart after the skip")
	})

	t.Run("Keeps Reduced Motion Preference", func(t *testing.T) {
		h := newHarness(t, domain.HeroTimeline(), nil)
		ctx := context.Background()

		h.seq.Start(ctx, true)
		h.seq.Replay(ctx)
		h.clock.Advance(runtime.DefaultReplayDelay)

		assert.True(t, h.seq.State().Finalized)
		assert.Equal(t, 0, h.clock.Pending())
	})

	t.Run("From Never Started", func(t *testing.T) {
		h := newHarness(t, domain.HeroTimeline(), nil, runtime.WithReplayDelay(100*ms))
		ctx := context.Background()

		h.seq.Replay(ctx)
		h.clock.Advance(100 * ms)

		assert.True(t, h.seq.State().Started)
	})
}

func TestSequencer_HooksOrder(t *testing.T) {
	var events []domain.EventType
	seqHook := func(ctx context.Context, e *domain.SequenceEvent) { events = append(events, e.Type) }
	stepHook := func(ctx context.Context, e *domain.StepEvent) { events = append(events, e.Type) }
	hooks := domain.LifecycleHooks{
		OnStart:       seqHook,
		OnStepApplied: stepHook,
		OnStepFailed:  stepHook,
		OnSkip:        seqHook,
		OnFinalize:    seqHook,
		OnReplay:      seqHook,
	}

	tl := domain.MustTimeline(
		domain.Step{Index: 0, At: 0, Action: domain.ActionShowTyping, Target: "typing"},
		domain.Step{Index: 1, At: time.Second, Action: domain.ActionFinalize, Target: "hero"},
	)
	h := newHarness(t, tl, nil, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	h.seq.Start(ctx, false)
	h.clock.Advance(0)
	h.seq.Skip(ctx)

	assert.Equal(t, []domain.EventType{
		domain.EventSequenceStart,
		domain.EventStepApplied,
		domain.EventStepApplied,
		domain.EventSequenceSkip,
		domain.EventSequenceFinalize,
	}, events)
}

func TestSequencer_ContextCancelHalts(t *testing.T) {
	h := newHarness(t, domain.HeroTimeline(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	h.seq.Start(ctx, false)
	h.clock.Advance(2500 * ms)
	cancel()
	h.clock.Advance(time.Minute)

	assert.Equal(t, []int{0, 1}, appliedIndices(h.stage))
	assert.False(t, h.seq.State().Finalized)
	assert.Equal(t, 0, h.clock.Pending())
}
