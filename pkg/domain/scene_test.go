package domain_test

import (
	"testing"

	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestScene_Apply(t *testing.T) {
	scene := domain.NewScene()
	assert.Equal(t, domain.DefaultTimeLabel, scene.Label)

	scene.Apply(domain.Effect{Action: domain.ActionRevealMessage, Target: "m1", Text: "hi"})
	scene.Apply(domain.Effect{Action: domain.ActionRevealMessage, Target: "m1", Text: "hi"})
	scene.Apply(domain.Effect{Action: domain.ActionShowTyping, Target: "typing"})
	scene.Apply(domain.Effect{Action: domain.ActionActivateOverlay, Target: "overlay"})
	scene.Apply(domain.Effect{Action: domain.ActionSwapLabelText, Target: "label", Text: "8:12 AM"})

	assert.Len(t, scene.Messages, 1, "revealing twice must not duplicate the bubble")
	assert.True(t, scene.Typing)
	assert.True(t, scene.Overlay)
	assert.Equal(t, "8:12 AM", scene.Label)
	assert.False(t, scene.Revealed)

	scene.Apply(domain.Effect{Action: domain.ActionHideTyping, Target: "typing"})
	scene.Apply(domain.Effect{Action: domain.ActionDeactivateOverlay, Target: "overlay"})
	scene.Apply(domain.Effect{Action: domain.ActionFinalize, Target: "hero"})

	assert.False(t, scene.Typing)
	assert.False(t, scene.Overlay)
	assert.True(t, scene.Revealed)
}

func TestFinalScene_Hero(t *testing.T) {
	scene := domain.FinalScene(domain.HeroTimeline())

	assert.Len(t, scene.Messages, 3)
	assert.False(t, scene.Typing)
	assert.False(t, scene.Overlay)
	assert.True(t, scene.Revealed)
	assert.Equal(t, "8:12 AM", scene.Label)
	assert.Equal(t, "Scan complete: no issues found", scene.Status)
}

func TestScene_CloneIsolation(t *testing.T) {
	scene := domain.NewScene()
	scene.Apply(domain.Effect{Action: domain.ActionRevealMessage, Target: "m1", Text: "hi"})

	clone := scene.Clone()
	clone.Messages[0].Text = "changed"

	assert.Equal(t, "hi", scene.Messages[0].Text)
}

func TestSequenceState_Phase(t *testing.T) {
	assert.Equal(t, domain.PhaseNotStarted, domain.SequenceState{}.Phase())
	assert.Equal(t, domain.PhaseRunning, domain.SequenceState{Started: true}.Phase())
	assert.Equal(t, domain.PhaseFinalized, domain.SequenceState{Started: true, Finalized: true}.Phase())
	assert.Equal(t, domain.PhaseSkipped, domain.SequenceState{Started: true, Finalized: true, Skipped: true}.Phase())
	assert.True(t, domain.SequenceState{Started: true, Finalized: true}.Terminal())
}
