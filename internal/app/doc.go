// Package app is the composition root for routewatch.
//
// Run loads configuration, opens the preference backend (falling back to
// memory when it cannot be opened), builds the fleet client and the route
// list scheduler, and hands everything to the console. The console opens
// per-route schedulers through a factory so each details view owns its own
// session.
//
// Watch and WatchRoute run the same schedulers without a terminal UI and
// print a table to the given writer on every accepted snapshot:
//
//	fleet.Client ──> poll.Scheduler ──> reportSink ──> state.Store
//	                                        │
//	                                        └──> table on stdout
//
// Watch with a route runs the list and route watchers side by side in an
// errgroup; WatchRoute returns once the route reaches a terminal status.
package app
