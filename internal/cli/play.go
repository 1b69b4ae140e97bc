package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/internal/presentation/tui"
	"github.com/identify-labs/marquee/pkg/adapters/browser"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/menu"
	"github.com/identify-labs/marquee/pkg/ports"
)

// PlayOptions configures Play.
type PlayOptions struct {
	ReducedMotion bool
	// Interactive runs the full-screen player; otherwise effects are printed as lines.
	Interactive bool
	Input       io.Reader
	Output      io.Writer
	Logger      *slog.Logger
	// Style is the glamour style for chat text ("" detects the terminal background).
	Style       string
	ReplayDelay time.Duration
	// BrowserURL, when set, plays the sequence against the hero section of a
	// live page instead of the terminal.
	BrowserURL string
	// Headful shows the browser window.
	Headful bool
}

// Play runs the hero sequence in the terminal until it finishes (line mode)
// or the user quits (interactive mode). Cancelling ctx stops it.
func Play(ctx context.Context, opts PlayOptions) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.ReplayDelay == 0 {
		opts.ReplayDelay = marquee.DefaultReplayDelay
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	switch {
	case opts.BrowserURL != "":
		return playBrowser(ctx, opts)
	case opts.Interactive:
		return playInteractive(ctx, opts)
	}
	return playLines(ctx, opts)
}

func playLines(ctx context.Context, opts PlayOptions) error {
	return playUntilFinalized(ctx, opts, tui.NewLineStage(opts.Output, time.Now))
}

func playBrowser(ctx context.Context, opts PlayOptions) error {
	l := launcher.New().Headless(!opts.Headful).Leakless(false)
	defer l.Cleanup()

	u, err := l.Context(ctx).Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	b := rod.New().Context(ctx).ControlURL(u)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer b.Close()

	page, err := b.Page(proto.TargetCreateTarget{URL: opts.BrowserURL})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", opts.BrowserURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.BrowserURL, err)
	}
	opts.Logger.Info("page loaded", "url", opts.BrowserURL)

	ctrl := menu.New(browser.NewMenuDocument(page, opts.Logger), menu.WithLogger(opts.Logger))
	if err := browser.BindMenu(ctx, page, ctrl, opts.Logger); err != nil {
		opts.Logger.Warn("mobile menu not bound", "err", err)
	}

	return playUntilFinalized(ctx, opts, browser.New(page, browser.WithLogger(opts.Logger)))
}

// playUntilFinalized runs one sequence against stage and prints the final phase.
func playUntilFinalized(ctx context.Context, opts PlayOptions, stage ports.Stage) error {
	done := make(chan struct{})
	var once sync.Once

	player := marquee.New(
		marquee.WithStage(stage),
		marquee.WithLogger(opts.Logger),
		marquee.WithReplayDelay(opts.ReplayDelay),
		marquee.WithLifecycleHooks(domain.LifecycleHooks{
			OnFinalize: func(context.Context, *domain.SequenceEvent) {
				once.Do(func() { close(done) })
			},
		}),
	)

	player.Start(ctx, opts.ReducedMotion)

	select {
	case <-done:
		fmt.Fprintf(opts.Output, "%s\n", player.State().Phase())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func playInteractive(ctx context.Context, opts PlayOptions) error {
	relay := &tui.Relay{}
	player := marquee.New(
		marquee.WithStage(tui.NewStage(relay)),
		marquee.WithLogger(opts.Logger),
		marquee.WithReplayDelay(opts.ReplayDelay),
		marquee.WithLifecycleHooks(tui.Hooks(relay)),
	)

	model := tui.NewModel(ctx, player, opts.ReducedMotion,
		tui.WithRenderer(tui.NewRenderer(opts.Style, 56)))

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	program := tea.NewProgram(model, progOpts...)
	relay.Attach(program)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal player failed: %w", err)
	}
	return nil
}
