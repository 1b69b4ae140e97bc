/*
Package domain contains the core types of the marquee hero sequence.

It is kept free of I/O: a Timeline is an immutable, ordered list of Steps,
each naming the visual transition (ActionKind) to apply to an opaque target
handle at a fixed offset from the start of the sequence. Stages (see
package ports) turn those transitions into real visual changes.

# Key Entities

  - Step: one scheduled visual-state change (index, offset, action, target).
  - Timeline: the validated, time-ordered set of Steps for a sequence.
  - SequenceState: the started/finalized/skipped flags of one run.
  - Scene: a plain model of the hero's visible state, used by stages that
    need to remember what is on screen.
  - Snapshot: a serialisable view of a run, used by stores and the HTTP API.
*/
package domain
