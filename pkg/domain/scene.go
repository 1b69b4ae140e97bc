package domain

// Message is a chat bubble made visible by a reveal-message step.
type Message struct {
	Target string `json:"target"`
	Text   string `json:"text"`
}

// Scene is a plain model of what the hero currently shows.
type Scene struct {
	Messages []Message `json:"messages"`
	Typing   bool      `json:"typing"`
	Status   string    `json:"status,omitempty"`
	Label    string    `json:"label"`
	Overlay  bool      `json:"overlay"`
	Revealed bool      `json:"revealed"`
}

// NewScene returns the pre-sequence defaults.
func NewScene() Scene {
	return Scene{
		Messages: []Message{},
		Label:    DefaultTimeLabel,
	}
}

// Apply folds one effect into the scene.
func (s *Scene) Apply(e Effect) {
	switch e.Action {
	case ActionRevealMessage:
		for _, m := range s.Messages {
			if m.Target == e.Target {
				return
			}
		}
		s.Messages = append(s.Messages, Message{Target: e.Target, Text: e.Text})
	case ActionShowTyping:
		s.Typing = true
	case ActionHideTyping:
		s.Typing = false
	case ActionRevealStatus:
		s.Status = e.Text
	case ActionSwapLabelText:
		s.Label = e.Text
	case ActionActivateOverlay:
		s.Overlay = true
	case ActionDeactivateOverlay:
		s.Overlay = false
	case ActionFinalize:
		s.Revealed = true
	}
}

// Clone returns a deep copy.
func (s Scene) Clone() Scene {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// FinalScene folds every step of the timeline into a fresh scene.
// It is the end state of both the reduced-motion path and a skip.
func FinalScene(t Timeline) Scene {
	scene := NewScene()
	for _, step := range t.steps {
		scene.Apply(step.Effect())
	}
	return scene
}
