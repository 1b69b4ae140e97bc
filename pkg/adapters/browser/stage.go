// Package browser drives the hero section of a live page over the Chrome
// DevTools Protocol.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/pkg/domain"
)

// CSS classes toggled on hero elements.
const (
	ClassVisible  = "visible"
	ClassActive   = "active"
	ClassRevealed = "content-revealed"
)

// Stage implements ports.Stage against a rod page.
type Stage struct {
	page      *rod.Page
	selectors map[string]string
	logger    *slog.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithSelectors overrides the CSS selector used for individual targets.
func WithSelectors(selectors map[string]string) Option {
	return func(s *Stage) {
		for target, sel := range selectors {
			s.selectors[target] = sel
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stage) {
		s.logger = logger
	}
}

// New creates a stage bound to page.
func New(page *rod.Page, opts ...Option) *Stage {
	s := &Stage{
		page:      page,
		selectors: make(map[string]string),
		logger:    logging.NewNop(),
	}
	for _, t := range domain.HeroTargets() {
		s.selectors[t] = SelectorFor(t)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectorFor is the default selector for a target handle.
func SelectorFor(target string) string {
	return fmt.Sprintf(`[data-hero-target=%q]`, target)
}

// Selector returns the selector the stage uses for target.
func (s *Stage) Selector(target string) string {
	if sel, ok := s.selectors[target]; ok {
		return sel
	}
	return SelectorFor(target)
}

// Apply resolves the target element and mutates its classes or text.
func (s *Stage) Apply(ctx context.Context, effect domain.Effect) error {
	page := s.page.Context(ctx)
	sel := s.Selector(effect.Target)

	has, el, err := page.Has(sel)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", sel, err)
	}
	if !has {
		return fmt.Errorf("%w: %q", domain.ErrTargetMissing, effect.Target)
	}

	js, args := Script(effect)
	if _, err := el.Eval(js, args...); err != nil {
		return fmt.Errorf("failed to apply %s to %s: %w", effect.Action, sel, err)
	}
	s.logger.Debug("browser effect applied", "action", effect.Action, "selector", sel)
	return nil
}

// Reset strips every class the sequence adds and restores the time label.
func (s *Stage) Reset(ctx context.Context) error {
	sels := make([]string, 0, len(s.selectors))
	for _, sel := range s.selectors {
		sels = append(sels, sel)
	}

	_, err := s.page.Context(ctx).Eval(resetScript, sels, s.Selector(domain.TargetTimeLabel), domain.DefaultTimeLabel)
	if err != nil {
		return fmt.Errorf("failed to reset hero: %w", err)
	}
	return nil
}

const resetScript = `function (selectors, labelSelector, label) {
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => {
			el.classList.remove('visible', 'active', 'content-revealed');
		});
	}
	const labelEl = document.querySelector(labelSelector);
	if (labelEl) {
		labelEl.textContent = label;
	}
}`

// Script returns the element-bound function that renders effect, with its arguments.
func Script(effect domain.Effect) (string, []interface{}) {
	switch effect.Action {
	case domain.ActionRevealMessage, domain.ActionRevealStatus:
		return `function (text) {
	if (text) {
		this.textContent = text;
	}
	this.classList.add('visible');
}`, []interface{}{effect.Text}
	case domain.ActionShowTyping:
		return classScript("add", ClassVisible)
	case domain.ActionHideTyping:
		return classScript("remove", ClassVisible)
	case domain.ActionSwapLabelText:
		return `function (text) { this.textContent = text; }`, []interface{}{effect.Text}
	case domain.ActionActivateOverlay:
		return classScript("add", ClassActive)
	case domain.ActionDeactivateOverlay:
		return classScript("remove", ClassActive)
	case domain.ActionFinalize:
		return classScript("add", ClassRevealed)
	default:
		return `function () {}`, nil
	}
}

func classScript(op, class string) (string, []interface{}) {
	return fmt.Sprintf(`function (cls) { this.classList.%s(cls); }`, op), []interface{}{class}
}
