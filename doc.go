/*
Package marquee plays the scripted hero sequence of the iDENTify landing page.

A hero sequence is a fixed, data-driven timeline: chat bubbles appear, a
typing indicator comes and goes, the phone clock ticks over, a scan overlay
runs, and finally the hero hands off to its "content revealed" state. marquee
separates *what happens when* (the domain.Timeline) from *how it is
scheduled* (a clock) and *where it is shown* (a ports.Stage), so the same
timeline can drive a browser page, a terminal, or an SSE stream.

# Guarantees

  - Steps fire in non-decreasing offset order; ties keep their index order.
  - Reduced motion applies the end state at once and schedules nothing.
  - Skip cancels everything pending before applying the end state, so a
    late timer can never overwrite it.
  - Replay only runs on a finished (or unstarted) sequence and never lets
    two runs overlap.
  - A missing visual target costs only its own step.

# Usage

	player := marquee.New(marquee.WithStage(myStage))
	player.Start(ctx, prefersReducedMotion)

	// user tapped the hero
	player.Skip(ctx)

	// user pressed "replay"
	player.Replay(ctx)
*/
package marquee
