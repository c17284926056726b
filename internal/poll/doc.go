// Package poll schedules repeated snapshot fetches.
//
// A Scheduler runs one fetch at a time per cycle, waits the focused or
// blurred interval, and repeats. Results go to a Sink (usually a
// state.Store) tagged with the cycle's session number:
//
//	Start ──► fetch ──► finish ──► Delay(interval) ──► fetch ...
//	            │          │
//	            │          └─ stale session? drop
//	            └─ Refresh / Pause / Stop bump the session
//
// There is no backoff: a failed background cycle is recorded on the sink
// and the next cycle runs at the regular interval. Task and Delay are the
// cancellable primitives the scheduler is built on; they are exported for
// callers that need a delayed start they can abort.
package poll
