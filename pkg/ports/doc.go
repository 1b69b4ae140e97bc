/*
Package ports defines the driven ports (interfaces) of the marquee sequencer.

These interfaces decouple the timeline logic from whatever actually shows the
hero: an in-memory scene, a terminal, a live browser page, or an SSE stream.

# Key Interfaces

  - Stage: applies the visual state of a step to an opaque target handle.
  - SnapshotStore: persists hero session snapshots.
  - DistributedLocker: serialises replays of one session across replicas.
*/
package ports
