package main

import (
	"os"

	"github.com/identify-labs/marquee/internal/cli"
	"github.com/identify-labs/marquee/internal/config"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and the hero session API",
	Long: `Serves static files from the site directory together with the hero
session API, the contact endpoint and Prometheus metrics. Settings come from
an optional config file, MARQUEE_* environment variables and flags, in
increasing order of precedence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path, os.Environ())
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("dir") {
			cfg.SiteDir, _ = flags.GetString("dir")
		}
		if flags.Changed("maintenance") {
			cfg.Maintenance, _ = flags.GetBool("maintenance")
		}
		if flags.Changed("redis") {
			cfg.Redis.Addr, _ = flags.GetString("redis")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		ctx, stop := cli.WithSignals(cmd.Context())
		defer stop()

		if err := cli.Serve(ctx, cfg, logger); err != nil {
			return err
		}
		if sig := cli.SignalOf(ctx); sig != nil {
			logger.Info("stopped by signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML or JSON config file")
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().StringP("dir", "d", ".", "Directory containing the site")
	serveCmd.Flags().Bool("maintenance", false, "Redirect every page to /maintenance.html")
	serveCmd.Flags().String("redis", "", "Redis address for the session store (default: in memory)")
}
