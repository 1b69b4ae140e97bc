package domain

// ActionKind names the visual transition a Step performs.
type ActionKind string

const (
	ActionRevealMessage     ActionKind = "reveal-message"
	ActionShowTyping        ActionKind = "show-typing"
	ActionHideTyping        ActionKind = "hide-typing"
	ActionRevealStatus      ActionKind = "reveal-status"
	ActionSwapLabelText     ActionKind = "swap-label-text"
	ActionActivateOverlay   ActionKind = "activate-overlay"
	ActionDeactivateOverlay ActionKind = "deactivate-overlay"
	ActionFinalize          ActionKind = "finalize"
)

// Valid reports whether a is one of the known action kinds.
func (a ActionKind) Valid() bool {
	switch a {
	case ActionRevealMessage, ActionShowTyping, ActionHideTyping, ActionRevealStatus,
		ActionSwapLabelText, ActionActivateOverlay, ActionDeactivateOverlay, ActionFinalize:
		return true
	}
	return false
}

// CarriesText reports whether the action writes text into its target.
func (a ActionKind) CarriesText() bool {
	switch a {
	case ActionRevealMessage, ActionRevealStatus, ActionSwapLabelText:
		return true
	}
	return false
}

// Effect is the request a Stage receives: apply the visual state of one step.
type Effect struct {
	Step   int        `json:"step"`
	Action ActionKind `json:"action"`
	Target string     `json:"target"`
	Text   string     `json:"text,omitempty"`
}
