package main

import (
	"fmt"

	"github.com/identify-labs/marquee/internal/presentation/graph"
	"github.com/identify-labs/marquee/internal/presentation/tui"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the hero timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		tl := domain.HeroTimeline()

		switch format {
		case "table":
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTimeline(tl))
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tl, nil))
		default:
			return fmt.Errorf("unknown format %q (table, mermaid)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.Flags().StringP("format", "f", "table", "Output format (table, mermaid)")
}
