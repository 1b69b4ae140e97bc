// Package tui plays the hero sequence in a terminal.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/identify-labs/marquee/pkg/counter"
	"github.com/identify-labs/marquee/pkg/domain"
)

// Controls is the part of the player the model drives.
type Controls interface {
	Start(ctx context.Context, reducedMotion bool)
	Skip(ctx context.Context)
	Replay(ctx context.Context)
}

// DefaultStats are the counters revealed with the hero content.
var DefaultStats = []counter.Stat{
	{Label: "Market", Target: 4.2, Unit: "B"},
	{Label: "Detection accuracy", Target: 94, Unit: "%"},
	{Label: "Seed round", Target: 1.5, Unit: "M"},
	{Label: "Runway", Target: 18, Unit: "months"},
}

// DefaultBars are the use-of-funds bars revealed under the counters.
var DefaultBars = []counter.Bar{
	{Label: "Product development", Percentage: 40},
	{Label: "Clinical validation", Percentage: 25},
	{Label: "Go-to-market", Percentage: 20},
	{Label: "Operations", Percentage: 15},
}

const barCells = 20

const frameInterval = 50 * time.Millisecond

type tickMsg time.Time

// Model is the bubbletea model of the terminal player.
type Model struct {
	ctx      context.Context
	controls Controls
	reduced  bool
	styles   Styles
	render   func(string) string
	stats    []counter.Stat
	bars     []counter.Bar
	now      func() time.Time

	scene      domain.Scene
	phase      domain.Phase
	missing    []string
	width      int
	revealedAt time.Time
	quitting   bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets the chat text renderer (default: text unchanged).
func WithRenderer(render func(string) string) ModelOption {
	return func(m *Model) {
		m.render = render
	}
}

// WithStats replaces the revealed counters.
func WithStats(stats []counter.Stat) ModelOption {
	return func(m *Model) {
		m.stats = stats
	}
}

// WithBars replaces the funding bars.
func WithBars(bars []counter.Bar) ModelOption {
	return func(m *Model) {
		m.bars = bars
	}
}

// WithNow sets the time source for counter animation.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a model that starts controls when the program starts.
func NewModel(ctx context.Context, controls Controls, reducedMotion bool, opts ...ModelOption) Model {
	m := Model{
		ctx:      ctx,
		controls: controls,
		reduced:  reducedMotion,
		styles:   DefaultStyles(),
		render:   func(s string) string { return s },
		stats:    DefaultStats,
		bars:     DefaultBars,
		now:      time.Now,
		scene:    domain.NewScene(),
		phase:    domain.PhaseNotStarted,
		width:    80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Player calls block on the sequencer lock, which may be held by a callback
// waiting for the program to read its message. They always run as commands.
func (m Model) call(fn func(ctx context.Context)) tea.Cmd {
	ctx, c := m.ctx, fn
	return func() tea.Msg {
		c(ctx)
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	reduced := m.reduced
	controls := m.controls
	return m.call(func(ctx context.Context) { controls.Start(ctx, reduced) })
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "s":
			return m, m.call(m.controls.Skip)
		case "r":
			return m, m.call(m.controls.Replay)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case EffectMsg:
		m.scene = msg.Scene
		if msg.Effect.Action == domain.ActionFinalize {
			m.revealedAt = m.now()
			return m, tick()
		}

	case ResetMsg:
		m.scene = msg.Scene
		m.missing = nil
		m.revealedAt = time.Time{}

	case PhaseMsg:
		m.phase = msg.Phase

	case StepFailedMsg:
		if msg.Missing {
			m.missing = append(m.missing, msg.Effect.Target)
		}

	case tickMsg:
		if m.animating() {
			return m, tick()
		}
	}
	return m, nil
}

func (m Model) progress() float64 {
	if m.revealedAt.IsZero() {
		return 0
	}
	return counter.Progress(m.now().Sub(m.revealedAt), counter.Duration(m.width))
}

func (m Model) animating() bool {
	if m.revealedAt.IsZero() {
		return false
	}
	return m.progress() < 1 || m.now().Sub(m.revealedAt) < counter.BarDuration(m.width)
}

// Scene returns the scene currently displayed.
func (m Model) Scene() domain.Scene {
	return m.scene
}

// Phase returns the last reported sequence phase.
func (m Model) Phase() domain.Phase {
	return m.phase
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("iDENTify"))
	sb.WriteString("  ")
	sb.WriteString(m.styles.Label.Render(string(m.phase)))
	sb.WriteString("\n\n")
	sb.WriteString(m.phone())
	sb.WriteString("\n")

	if m.scene.Revealed {
		sb.WriteString("\n")
		sb.WriteString(m.statsView())
		sb.WriteString("\n")
		if len(m.bars) > 0 {
			sb.WriteString("\n")
			sb.WriteString(m.barsView())
		}
	}
	if len(m.missing) > 0 {
		sb.WriteString(m.styles.Warning.Render("missing: " + strings.Join(m.missing, ", ")))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("s skip • r replay • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) phone() string {
	inner := m.width - 8
	if inner < 24 {
		inner = 24
	}
	if inner > 60 {
		inner = 60
	}

	rows := []string{
		lipgloss.PlaceHorizontal(inner, lipgloss.Right, m.styles.Label.Render(m.scene.Label)),
	}
	for i, msg := range m.scene.Messages {
		style := m.styles.Bubble
		align := lipgloss.Left
		if i%2 == 1 {
			style = m.styles.Reply
			align = lipgloss.Right
		}
		bubble := style.MaxWidth(inner).Render(m.render(msg.Text))
		rows = append(rows, lipgloss.PlaceHorizontal(inner, align, bubble))
	}
	if m.scene.Typing {
		rows = append(rows, m.styles.Typing.Render("typing…"))
	}
	if m.scene.Overlay {
		rows = append(rows, m.styles.Overlay.Render("scanning"))
	}
	if m.scene.Status != "" {
		rows = append(rows, m.styles.Status.Render(m.scene.Status))
	}

	return m.styles.Phone.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) statsView() string {
	p := m.progress()
	cells := make([]string, 0, len(m.stats))
	for _, s := range m.stats {
		value := m.styles.Stat.Render(s.Render(p))
		unit := s.Unit
		if unit == "%" {
			unit = ""
		}
		cells = append(cells, fmt.Sprintf("%s %s\n%s", value, m.styles.StatUnit.Render(unit), m.styles.Label.Render(s.Label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced(cells)...)
}

func (m Model) barsView() string {
	var elapsed time.Duration
	if !m.revealedAt.IsZero() {
		elapsed = m.now().Sub(m.revealedAt)
	}

	labelWidth := 0
	for _, b := range m.bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}

	var sb strings.Builder
	for _, b := range m.bars {
		width := b.Width(elapsed, m.width)
		filled := min(int(math.Round(width/100*barCells)), barCells)
		fmt.Fprintf(&sb, "%s %s%s %s\n",
			m.styles.Label.Render(fmt.Sprintf("%-*s", labelWidth, b.Label)),
			m.styles.Bar.Render(strings.Repeat("█", filled)),
			m.styles.BarTrack.Render(strings.Repeat("░", barCells-filled)),
			m.styles.StatUnit.Render(fmt.Sprintf("%.0f%%", width)),
		)
	}
	return sb.String()
}

func spaced(cells []string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, c)
	}
	return out
}
