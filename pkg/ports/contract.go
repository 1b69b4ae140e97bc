package ports

import (
	"context"
	"testing"
	"time"

	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) domain.Snapshot {
		scene := domain.NewScene()
		scene.Apply(domain.Effect{Action: domain.ActionRevealMessage, Target: "m1", Text: "hello"})
		return domain.Snapshot{
			SessionID: id,
			State:     domain.SequenceState{Started: true},
			Phase:     domain.PhaseRunning,
			Applied:   []int{0},
			Scene:     scene,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(sessionID)

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Phase, loaded.Phase)
		assert.Equal(t, []int{0}, loaded.Applied)
		require.Len(t, loaded.Scene.Messages, 1)
		assert.Equal(t, "hello", loaded.Scene.Messages[0].Text)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Applied[0] = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, again.Applied, "mutating a loaded snapshot must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newSnapshot(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newSnapshot(id1))
		_ = store.Save(ctx, id2, newSnapshot(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// SceneReader is implemented by stages that can report what they currently show.
type SceneReader interface {
	Scene() domain.Scene
}

// RunStageContract verifies that a Stage folds effects into the expected scene,
// reports unknown targets with domain.ErrTargetMissing and resets to defaults.
// missing must be a target handle the stage cannot resolve.
func RunStageContract(t *testing.T, stage interface {
	Stage
	SceneReader
}, missing string) {
	ctx := context.Background()

	t.Run("Apply Hero Timeline", func(t *testing.T) {
		require.NoError(t, stage.Reset(ctx))

		tl := domain.HeroTimeline()
		for _, step := range tl.Steps() {
			require.NoError(t, stage.Apply(ctx, step.Effect()), "step %d", step.Index)
		}
		assert.Equal(t, domain.FinalScene(tl), stage.Scene())
	})

	t.Run("Missing Target", func(t *testing.T) {
		err := stage.Apply(ctx, domain.Effect{Action: domain.ActionRevealMessage, Target: missing, Text: "x"})
		assert.ErrorIs(t, err, domain.ErrTargetMissing)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, stage.Reset(ctx))
		assert.Equal(t, domain.NewScene(), stage.Scene())
	})
}
