package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/identify-labs/marquee/pkg/domain"
)

// Stage implements ports.Stage by folding effects into a domain.Scene.
// Safe for concurrent use.
type Stage struct {
	mu      sync.RWMutex
	scene   domain.Scene
	known   map[string]bool
	effects []domain.Effect
}

// StageOption configures a Stage.
type StageOption func(*Stage)

// WithTargets restricts the stage to the given handles; any other target is reported missing.
// Without it every target resolves.
func WithTargets(targets ...string) StageOption {
	return func(s *Stage) {
		s.known = make(map[string]bool, len(targets))
		for _, t := range targets {
			s.known[t] = true
		}
	}
}

// WithoutTargets declares handles that are absent from the page.
func WithoutTargets(targets ...string) StageOption {
	return func(s *Stage) {
		if s.known == nil {
			s.known = make(map[string]bool)
			for _, t := range domain.HeroTargets() {
				s.known[t] = true
			}
		}
		for _, t := range targets {
			delete(s.known, t)
		}
	}
}

// WithScene starts the stage on an existing scene, such as one restored
// from a snapshot.
func WithScene(scene domain.Scene) StageOption {
	return func(s *Stage) {
		s.scene = scene.Clone()
	}
}

// NewStage creates a stage showing the pre-sequence scene.
func NewStage(opts ...StageOption) *Stage {
	s := &Stage{scene: domain.NewScene()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply folds the effect into the scene.
func (s *Stage) Apply(ctx context.Context, effect domain.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.known != nil && !s.known[effect.Target] {
		return fmt.Errorf("%w: %q", domain.ErrTargetMissing, effect.Target)
	}
	s.scene.Apply(effect)
	s.effects = append(s.effects, effect)
	return nil
}

// Reset restores the pre-sequence scene and forgets the effect log.
func (s *Stage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scene = domain.NewScene()
	s.effects = nil
	return nil
}

// Scene returns a copy of the current scene.
func (s *Stage) Scene() domain.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene.Clone()
}

// Effects returns the effects applied since the last reset, in order.
func (s *Stage) Effects() []domain.Effect {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Effect, len(s.effects))
	copy(out, s.effects)
	return out
}
