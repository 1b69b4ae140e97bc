package graph

import (
	"fmt"
	"strings"

	"github.com/identify-labs/marquee/pkg/domain"
)

// Overlay marks run progress on the chart.
type Overlay struct {
	Applied []int
	Missing []int
	// Next is the index of the next step due, or -1 when none is pending.
	Next int
}

// GenerateMermaid produces a Mermaid gantt chart of the timeline, one section
// per target and one milestone per step. Applied steps are drawn done,
// missing targets critical and the next due step active.
func GenerateMermaid(t domain.Timeline, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("gantt\n")
	sb.WriteString("    title Hero timeline\n")
	sb.WriteString("    dateFormat x\n")
	sb.WriteString("    axisFormat %S.%Ls\n")

	applied := map[int]bool{}
	missing := map[int]bool{}
	next := -1
	if overlay != nil {
		for _, i := range overlay.Applied {
			applied[i] = true
		}
		for _, i := range overlay.Missing {
			missing[i] = true
		}
		next = overlay.Next
	}

	section := ""
	for _, target := range targetOrder(t) {
		for _, step := range t.Steps() {
			if step.Target != target {
				continue
			}
			if step.Target != section {
				section = step.Target
				sb.WriteString(fmt.Sprintf("    section %s\n", section))
			}

			tags := []string{"milestone"}
			switch {
			case missing[step.Index]:
				tags = append(tags, "crit")
			case applied[step.Index]:
				tags = append(tags, "done")
			case overlay != nil && step.Index == next:
				tags = append(tags, "active")
			}
			at := step.At.Milliseconds()
			sb.WriteString(fmt.Sprintf("    %s :%s, s%d, %d, %d\n",
				taskLabel(step), strings.Join(tags, ", "), step.Index, at, at))
		}
	}

	return sb.String()
}

// targetOrder lists targets in order of first appearance.
func targetOrder(t domain.Timeline) []string {
	seen := map[string]bool{}
	var order []string
	for _, step := range t.Steps() {
		if !seen[step.Target] {
			seen[step.Target] = true
			order = append(order, step.Target)
		}
	}
	return order
}

func taskLabel(step domain.Step) string {
	label := string(step.Action)
	if step.Text != "" {
		label += " " + step.Text
	}
	// ':' and '#' end a task name in gantt syntax.
	label = strings.NewReplacer(":", "", "#", "", ";", ",").Replace(label)
	if len(label) > 48 {
		label = label[:45] + "..."
	}
	return label
}
