package domain

import "time"

// Target handles used by the hero chat.
const (
	TargetGreeting  = "message-greeting"
	TargetTyping    = "typing-indicator"
	TargetReply     = "message-reply"
	TargetTimeLabel = "time-label"
	TargetOverlay   = "scan-overlay"
	TargetStatus    = "scan-status"
	TargetResult    = "message-result"
	TargetHero      = "hero"
)

// DefaultTimeLabel is shown in the phone mock-up before the label swap.
const DefaultTimeLabel = "8:11 AM"

// HeroTimeline returns the scripted chat shown on the landing page hero.
func HeroTimeline() Timeline {
	ms := time.Millisecond
	return MustTimeline(
		Step{Index: 0, At: 0, Action: ActionRevealMessage, Target: TargetGreeting,
			Text: "Good morning! Ready for your 30-second smile check?"},
		Step{Index: 1, At: 2000 * ms, Action: ActionShowTyping, Target: TargetTyping},
		Step{Index: 2, At: 3500 * ms, Action: ActionHideTyping, Target: TargetTyping},
		Step{Index: 3, At: 3500 * ms, Action: ActionRevealMessage, Target: TargetReply,
			Text: "Sure, scanning now."},
		Step{Index: 4, At: 5500 * ms, Action: ActionSwapLabelText, Target: TargetTimeLabel,
			Text: "8:12 AM"},
		Step{Index: 5, At: 7000 * ms, Action: ActionActivateOverlay, Target: TargetOverlay},
		Step{Index: 6, At: 9000 * ms, Action: ActionDeactivateOverlay, Target: TargetOverlay},
		Step{Index: 7, At: 9000 * ms, Action: ActionRevealStatus, Target: TargetStatus,
			Text: "Scan complete: no issues found"},
		Step{Index: 8, At: 10500 * ms, Action: ActionRevealMessage, Target: TargetResult,
			Text: "Your gums look healthy. See you tomorrow!"},
		Step{Index: 9, At: 12500 * ms, Action: ActionFinalize, Target: TargetHero},
	)
}

// HeroTargets lists every handle the hero timeline addresses.
func HeroTargets() []string {
	return []string{
		TargetGreeting,
		TargetTyping,
		TargetReply,
		TargetTimeLabel,
		TargetOverlay,
		TargetStatus,
		TargetResult,
		TargetHero,
	}
}
