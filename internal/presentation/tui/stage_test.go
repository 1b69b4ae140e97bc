package tui_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/internal/presentation/tui"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/clock"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *collector) Send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) Msgs() []tea.Msg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tea.Msg(nil), c.msgs...)
}

func TestStage_Contract(t *testing.T) {
	ports.RunStageContract(t, tui.NewStage(nil, memory.WithoutTargets("gone")), "gone")
}

func TestStage_ForwardsEffects(t *testing.T) {
	sink := &collector{}
	stage := tui.NewStage(sink, memory.WithoutTargets(domain.TargetOverlay))
	ctx := context.Background()

	greeting := domain.Effect{Action: domain.ActionRevealMessage, Target: domain.TargetGreeting, Text: "hi"}
	require.NoError(t, stage.Apply(ctx, greeting))
	assert.Error(t, stage.Apply(ctx, domain.Effect{Action: domain.ActionActivateOverlay, Target: domain.TargetOverlay}))
	require.NoError(t, stage.Reset(ctx))

	msgs := sink.Msgs()
	require.Len(t, msgs, 2)
	effect, ok := msgs[0].(tui.EffectMsg)
	require.True(t, ok)
	assert.Equal(t, greeting, effect.Effect)
	assert.Len(t, effect.Scene.Messages, 1)
	assert.IsType(t, tui.ResetMsg{}, msgs[1])
}

func TestRelay_WithPlayer(t *testing.T) {
	relay := &tui.Relay{}
	fake := clock.NewFake(time.Date(2024, 3, 1, 8, 11, 0, 0, time.UTC))
	player := marquee.New(
		marquee.WithClock(fake),
		marquee.WithStage(tui.NewStage(relay, memory.WithoutTargets(domain.TargetStatus))),
		marquee.WithLifecycleHooks(tui.Hooks(relay)),
	)

	sink := &collector{}
	relay.Attach(sink)

	ctx := context.Background()
	player.Start(ctx, false)
	fake.Advance(6 * time.Second)
	player.Skip(ctx)

	var phases []domain.Phase
	var effects, failed int
	for _, msg := range sink.Msgs() {
		switch msg := msg.(type) {
		case tui.PhaseMsg:
			phases = append(phases, msg.Phase)
		case tui.EffectMsg:
			effects++
		case tui.StepFailedMsg:
			failed++
			assert.True(t, msg.Missing)
		}
	}

	assert.Equal(t, domain.PhaseRunning, phases[0])
	assert.Equal(t, domain.PhaseSkipped, phases[len(phases)-1])
	assert.Equal(t, domain.HeroTimeline().Len()-1, effects)
	assert.Equal(t, 1, failed)
}

func TestRelay_DropsBeforeAttach(t *testing.T) {
	relay := &tui.Relay{}
	relay.Send(tui.ResetMsg{})
}

func TestLineStage(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 1, 8, 11, 0, 0, time.UTC)
	stage := tui.NewLineStage(&buf, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, stage.Apply(ctx, domain.Effect{Action: domain.ActionRevealMessage, Target: domain.TargetGreeting, Text: "hi"}))
	now = now.Add(5500 * time.Millisecond)
	require.NoError(t, stage.Apply(ctx, domain.Effect{Action: domain.ActionSwapLabelText, Target: domain.TargetTimeLabel, Text: "8:12 AM"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[  0.00s] reveal-message")
	assert.Contains(t, lines[0], `"hi"`)
	assert.Contains(t, lines[1], "[  5.50s] swap-label-text")
	assert.Equal(t, "8:12 AM", stage.Scene().Label)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestLineStage_WriteFailureLeavesSceneUntouched(t *testing.T) {
	stage := tui.NewLineStage(failingWriter{}, time.Now)

	err := stage.Apply(context.Background(), domain.Effect{Action: domain.ActionSwapLabelText, Target: domain.TargetTimeLabel, Text: "8:12 AM"})
	require.Error(t, err)
	assert.Equal(t, domain.NewScene(), stage.Scene())
}

func TestRenderTimeline(t *testing.T) {
	out := tui.RenderTimeline(domain.HeroTimeline())

	assert.Contains(t, out, "ACTION")
	assert.Contains(t, out, "swap-label-text")
	assert.Contains(t, out, "5.5s")
	assert.Contains(t, out, "8:12 AM")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer("notty", 40)
	assert.Contains(t, render("**Sure**, scanning now."), "Sure")
}
