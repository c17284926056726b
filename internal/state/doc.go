// Package state holds the published route snapshots shared between the poll
// schedulers and the console.
//
// # Overview
//
// Each Store is one shared cell. The scheduler is the only writer; the
// console and the headless watchers read copies:
//
//	Producer (poll.Scheduler):      Consumer (ui / watch):
//	┌──────────────────────┐       ┌──────────────────────┐
//	│ fetch snapshot       │       │                      │
//	│      ↓               │       │                      │
//	│ store.Publish(s, v)  │──────→│ store.Snapshot()     │
//	│   reconcile + swap   │(mutex)│      ↓               │
//	│      ↓               │       │ filter, sort, render │
//	│ schedule next cycle  │       │                      │
//	└──────────────────────┘       └──────────────────────┘
//
// # Update Semantics
//
// Publish replaces the whole value at once, so readers see either the
// previous snapshot or the new one, never a mix. Before the swap the
// store's merge function reconciles the incoming value with the previous
// one; for routes that is ReconcileRoutes, which carries each route's
// ClientState forward by id using a map index of the previous list.
//
// Publish also enforces session order: a value tagged with a session older
// than the one already published is rejected, so a slow response can never
// overwrite newer data.
//
// Fail keeps the previous value and records the error:
//
//	store.Fail(err)
//	→ snapshot.Value = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// # Defensive Copying
//
// Snapshot clones the value (route slices and their stop slices) and wraps
// the error, so callers may mutate what they get without affecting other
// readers.
package state
