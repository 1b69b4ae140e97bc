package ports

import (
	"context"

	"github.com/identify-labs/marquee/pkg/domain"
)

// Stage turns effects into visible changes.
// Implementations resolve effect targets themselves; the sequencer never sees selectors.
type Stage interface {
	// Apply performs the visual change of one step.
	// Returns domain.ErrTargetMissing (possibly wrapped) when the target cannot be resolved.
	Apply(ctx context.Context, effect domain.Effect) error

	// Reset restores every target to its pre-sequence default.
	Reset(ctx context.Context) error
}
