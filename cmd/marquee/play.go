package main

import (
	"os"

	"github.com/identify-labs/marquee/internal/cli"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the hero sequence in the terminal",
	Long: `Plays the hero chat sequence. On a terminal it opens an interactive
player (s skips, r replays, q quits); otherwise every effect is printed as a
line as it fires. With --browser it drives the hero section of a live page
over the DevTools protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reduced, _ := cmd.Flags().GetBool("reduced-motion")
		plain, _ := cmd.Flags().GetBool("plain")
		style, _ := cmd.Flags().GetString("style")
		url, _ := cmd.Flags().GetString("browser")
		headful, _ := cmd.Flags().GetBool("headful")

		interactive := url == "" && !plain && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		if interactive {
			// stderr shares the screen with the player.
			logger = logging.NewNop()
			tui.PrintBanner(os.Stdout)
		}

		ctx, stop := cli.WithSignals(cmd.Context())
		defer stop()

		return cli.Play(ctx, cli.PlayOptions{
			ReducedMotion: reduced,
			Interactive:   interactive,
			Input:         os.Stdin,
			Output:        os.Stdout,
			Logger:        logger,
			Style:         style,
			BrowserURL:    url,
			Headful:       headful,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("reduced-motion", false, "Show the final state immediately")
	playCmd.Flags().Bool("plain", false, "Print effects as lines even on a terminal")
	playCmd.Flags().String("browser", "", "Play against the hero section of the page at this URL")
	playCmd.Flags().Bool("headful", false, "Show the browser window (with --browser)")
	playCmd.Flags().String("style", "", "Glamour style for chat text (dark, light, notty; default: auto)")
}
