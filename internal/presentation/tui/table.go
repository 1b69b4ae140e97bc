package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/identify-labs/marquee/pkg/domain"
)

// RenderTimeline draws the timeline as a table, one row per step in firing order.
func RenderTimeline(t domain.Timeline) string {
	styles := DefaultStyles()
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Label).
		Headers("#", "AT", "ACTION", "TARGET", "TEXT")

	for _, step := range t.Steps() {
		tbl.Row(
			fmt.Sprintf("%d", step.Index),
			fmt.Sprintf("%.1fs", step.At.Seconds()),
			string(step.Action),
			step.Target,
			step.Text,
		)
	}
	return tbl.Render()
}
