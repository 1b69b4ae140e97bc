package main

import (
	"fmt"
	"strings"

	"github.com/identify-labs/marquee"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of marquee",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee version %s\n", strings.TrimSpace(marquee.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
