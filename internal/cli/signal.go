// Package cli implements the commands of the marquee binary.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// InterruptError is the cancellation cause recorded when a signal stops a command.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM, with the
// signal recorded as its cause. Calling stop releases the handler.
func WithSignals(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// SignalOf returns the signal that cancelled ctx, or nil.
func SignalOf(ctx context.Context) os.Signal {
	var ie *InterruptError
	if errors.As(context.Cause(ctx), &ie) {
		return ie.Signal
	}
	return nil
}
