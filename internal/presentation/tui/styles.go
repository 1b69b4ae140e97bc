package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles of the player.
type Styles struct {
	Title    lipgloss.Style
	Phone    lipgloss.Style
	Label    lipgloss.Style
	Bubble   lipgloss.Style
	Reply    lipgloss.Style
	Typing   lipgloss.Style
	Overlay  lipgloss.Style
	Status   lipgloss.Style
	Stat     lipgloss.Style
	StatUnit lipgloss.Style
	Bar      lipgloss.Style
	BarTrack lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the player palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("#38bdf8")
	muted := lipgloss.Color("#64748b")

	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Phone: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(muted),
		Bubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Reply: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a78bfa")).
			Padding(0, 1),
		Typing:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		Overlay:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0f172a")).Background(accent).Padding(0, 1),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true),
		Stat:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		StatUnit: lipgloss.NewStyle().Foreground(muted),
		Bar:      lipgloss.NewStyle().Foreground(accent),
		BarTrack: lipgloss.NewStyle().Foreground(lipgloss.Color("#1e293b")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		Help:     lipgloss.NewStyle().Foreground(muted),
	}
}
