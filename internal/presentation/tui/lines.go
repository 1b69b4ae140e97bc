package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/domain"
)

// LineStage implements ports.Stage for non-interactive output: every effect
// is printed as one line, offset from the first effect of the run.
type LineStage struct {
	inner *memory.Stage
	now   func() time.Time

	mu    sync.Mutex
	w     io.Writer
	start time.Time
}

// NewLineStage creates a stage printing to w using now for offsets.
func NewLineStage(w io.Writer, now func() time.Time) *LineStage {
	return &LineStage{
		inner: memory.NewStage(),
		now:   now,
		w:     w,
	}
}

// Apply prints the effect and folds it into the scene. A failed write leaves
// the scene untouched, so a step reported as failed is never shown.
func (s *LineStage) Apply(ctx context.Context, effect domain.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.start.IsZero() {
		s.start = s.now()
	}
	elapsed := s.now().Sub(s.start)

	line := fmt.Sprintf("[%6.2fs] %-18s %s", elapsed.Seconds(), effect.Action, effect.Target)
	if effect.Text != "" {
		line += fmt.Sprintf(" %q", effect.Text)
	}
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("failed to print %s: %w", effect.Action, err)
	}
	return s.inner.Apply(ctx, effect)
}

func (s *LineStage) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.start = time.Time{}
	s.mu.Unlock()
	return s.inner.Reset(ctx)
}

// Scene returns the current scene.
func (s *LineStage) Scene() domain.Scene {
	return s.inner.Scene()
}
