package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/identify-labs/marquee/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "marquee plays the iDENTify hero sequence and serves the site",
	Long: `marquee drives the landing page hero chat: a timed sequence of message
reveals, a typing indicator, a label swap and a scan overlay, with skip and
replay controls. It can play the sequence in a terminal or serve the site
together with a hero session API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// newLogger builds the stderr logger from the --log-level flag.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	lvl, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(lvl)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
